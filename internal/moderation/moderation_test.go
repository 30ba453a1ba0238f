package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return nil
}

// deleteSpy fails the test if Delete reaches the store
type deleteSpy struct {
	store.StoryStore
	deletes int
}

func (d *deleteSpy) Delete(ctx context.Context, id string) error {
	d.deletes++
	return d.StoryStore.Delete(ctx, id)
}

// outage simulates an unreachable entity store
type outage struct{ store.StoryStore }

func (outage) List(ctx context.Context, sort string) ([]models.Story, error) {
	return nil, models.ErrNetwork
}

func (outage) Filter(ctx context.Context, f models.StoryFilter, sort string) ([]models.Story, error) {
	return nil, models.ErrNetwork
}

var unlocked = models.AdminSession{Authenticated: true}

func submit(t *testing.T, s store.StoryStore, title string) *models.Story {
	t.Helper()
	created, err := s.Create(context.Background(), models.StoryInput{
		Title:       title,
		Content:     "body",
		AuthorName:  "Ana",
		AuthorEmail: "ana@example.com",
		Category:    models.CategoryKindness,
	})
	require.NoError(t, err)
	return created
}

func TestLockedSessionIsRejected(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	story := submit(t, s, "a")

	for name, session := range map[string]Authorizer{
		"zero value": models.AdminSession{},
		"nil":        nil,
	} {
		t.Run(name, func(t *testing.T) {
			w := New(s, nil, session)

			_, err := w.List(ctx, "")
			assert.True(t, errors.Is(err, models.ErrForbidden))
			_, err = w.Approve(ctx, story.ID)
			assert.True(t, errors.Is(err, models.ErrForbidden))
			_, err = w.Reject(ctx, story.ID)
			assert.True(t, errors.Is(err, models.ErrForbidden))
			assert.True(t, errors.Is(w.Delete(ctx, story.ID, true), models.ErrForbidden))
			_, err = w.Counts(ctx)
			assert.True(t, errors.Is(err, models.ErrForbidden))
		})
	}

	got, err := s.Get(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	a := submit(t, s, "a")
	b := submit(t, s, "b")
	c := submit(t, s, "c")

	w := New(s, nil, unlocked)
	_, err := w.Approve(ctx, a.ID)
	require.NoError(t, err)
	_, err = w.Reject(ctx, b.ID)
	require.NoError(t, err)

	pending, err := w.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, c.ID, pending[0].ID)

	approved, err := w.List(ctx, "approved")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, a.ID, approved[0].ID)
	assert.Equal(t, "ana@example.com", approved[0].AuthorEmail, "admins see the author email")

	all, err := w.List(ctx, FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	_, err = w.List(ctx, "archived")
	assert.True(t, errors.Is(err, models.ErrValidation))

	counts, err := w.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Pending: 1, Approved: 1, Rejected: 1, All: 3}, counts)
}

func TestApproveInvalidatesPublicView(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	story := submit(t, s, "a")
	inv := &countingInvalidator{}
	w := New(s, inv, unlocked)

	got, err := w.Approve(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, 1, inv.calls)

	got, err = w.Reject(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, 2, inv.calls)

	_, err = w.Approve(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.Equal(t, 2, inv.calls)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	spy := &deleteSpy{StoryStore: store.NewMemory()}
	story := submit(t, spy, "a")
	inv := &countingInvalidator{}
	w := New(spy, inv, unlocked)

	err := w.Delete(ctx, story.ID, false)
	assert.True(t, errors.Is(err, models.ErrConfirmationRequired))
	assert.Equal(t, 0, spy.deletes)

	require.NoError(t, w.Delete(ctx, story.ID, true))
	assert.Equal(t, 1, spy.deletes)
	assert.Equal(t, 1, inv.calls)

	_, err = w.Approve(ctx, story.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.True(t, errors.Is(w.Delete(ctx, story.ID, true), models.ErrNotFound))
}

func TestListDegradesOnOutage(t *testing.T) {
	w := New(outage{store.NewMemory()}, nil, unlocked)

	stories, err := w.List(context.Background(), FilterAll)
	require.NoError(t, err)
	assert.Empty(t, stories)
}
