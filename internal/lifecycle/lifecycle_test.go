package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		from    models.Status
		action  Action
		want    models.Status
		deleted bool
	}{
		{models.StatusPending, ActionApprove, models.StatusApproved, false},
		{models.StatusPending, ActionReject, models.StatusRejected, false},
		{models.StatusApproved, ActionReject, models.StatusRejected, false},
		{models.StatusRejected, ActionApprove, models.StatusApproved, false},
		{models.StatusApproved, ActionApprove, models.StatusApproved, false},
		{models.StatusRejected, ActionReject, models.StatusRejected, false},
		{models.StatusPending, ActionDelete, "", true},
		{models.StatusApproved, ActionDelete, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			next, deleted, err := Next(tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, next)
			assert.Equal(t, tt.deleted, deleted)
			assert.NotEqual(t, models.StatusPending, next, "no transition leads back to pending")
		})
	}
}

func TestNextRejectsUnknownInput(t *testing.T) {
	_, _, err := Next(models.StatusPending, Action("publish"))
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))

	_, _, err = Next(models.Status("archived"), ActionApprove)
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))
}

func seed(t *testing.T, s store.StoryStore) *models.Story {
	t.Helper()
	created, err := s.Create(context.Background(), models.StoryInput{
		Title:       "Free coffee for strangers",
		Content:     "A barista paid it forward.",
		AuthorName:  "Ana",
		AuthorEmail: "ana@example.com",
		Category:    models.CategoryKindness,
	})
	require.NoError(t, err)
	require.Equal(t, Initial, created.Status)
	return created
}

func TestApproveThenRejectEndsRejected(t *testing.T) {
	ctx := context.Background()

	for _, start := range []Action{"", ActionApprove, ActionReject} {
		t.Run("start "+string(start), func(t *testing.T) {
			s := store.NewMemory()
			m := NewMachine(s)
			story := seed(t, s)

			if start != "" {
				_, err := m.Transition(ctx, story.ID, start)
				require.NoError(t, err)
			}

			_, err := m.Transition(ctx, story.ID, ActionApprove)
			require.NoError(t, err)
			got, err := m.Transition(ctx, story.ID, ActionReject)
			require.NoError(t, err)
			assert.Equal(t, models.StatusRejected, got.Status)
		})
	}
}

func TestTransitionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	m := NewMachine(s)
	story := seed(t, s)

	first, err := m.Transition(ctx, story.ID, ActionApprove)
	require.NoError(t, err)
	second, err := m.Transition(ctx, story.ID, ActionApprove)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, first.Status)
	assert.Equal(t, first, second)
	assert.True(t, Visible(*second))
}

func TestDeletedStoryIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	m := NewMachine(s)
	story := seed(t, s)

	deleted, err := m.Transition(ctx, story.ID, ActionDelete)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	for _, a := range []Action{ActionApprove, ActionReject, ActionDelete} {
		_, err := m.Transition(ctx, story.ID, a)
		assert.True(t, errors.Is(err, models.ErrNotFound), a)
	}
}
