package store

import (
	"context"
	"errors"
	"testing"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fullStore interface {
	StoryStore
	UserStore
}

func backends(t *testing.T) map[string]fullStore {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	return map[string]fullStore{
		"memory": NewMemory(),
		"file":   f,
	}
}

func input(title string) models.StoryInput {
	return models.StoryInput{
		Title:       title,
		Content:     "content of " + title,
		AuthorName:  "Ana",
		AuthorEmail: "ana@example.com",
		Category:    models.CategoryKindness,
	}
}

func TestStoryStoreContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			in := input("first")
			in.Status = models.StatusApproved
			in.Category = ""
			first, err := s.Create(ctx, in)
			require.NoError(t, err)
			assert.NotEmpty(t, first.ID)
			assert.Equal(t, models.StatusPending, first.Status, "client supplied status must be ignored")
			assert.Equal(t, models.DefaultCategory, first.Category)
			assert.False(t, first.CreatedDate.IsZero())

			second, err := s.Create(ctx, input("second"))
			require.NoError(t, err)

			all, err := s.List(ctx, models.SortNewestFirst)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, second.ID, all[0].ID)
			assert.Equal(t, first.ID, all[1].ID)

			oldest, err := s.List(ctx, "created_date")
			require.NoError(t, err)
			assert.Equal(t, first.ID, oldest[0].ID)

			updated, err := s.Update(ctx, first.ID, models.StoryPatch{Status: models.StatusApproved})
			require.NoError(t, err)
			assert.Equal(t, models.StatusApproved, updated.Status)
			assert.Equal(t, first.CreatedDate.Unix(), updated.CreatedDate.Unix())

			approved, err := s.Filter(ctx, models.StoryFilter{Status: models.StatusApproved}, models.SortNewestFirst)
			require.NoError(t, err)
			require.Len(t, approved, 1)
			assert.Equal(t, first.ID, approved[0].ID)

			got, err := s.Get(ctx, second.ID)
			require.NoError(t, err)
			assert.Equal(t, "second", got.Title)

			require.NoError(t, s.Delete(ctx, second.ID))
			_, err = s.Get(ctx, second.ID)
			assert.True(t, errors.Is(err, models.ErrNotFound))
			_, err = s.Update(ctx, second.ID, models.StoryPatch{Status: models.StatusApproved})
			assert.True(t, errors.Is(err, models.ErrNotFound))
			assert.True(t, errors.Is(s.Delete(ctx, second.ID), models.ErrNotFound))
		})
	}
}

func TestUserStoreContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			u := &models.User{ID: "u1", Name: "Ana", Email: " Ana@Example.com ", PasswordHash: "hash", Provider: models.ProviderLocal}
			require.NoError(t, s.CreateUser(ctx, u))
			assert.Equal(t, "ana@example.com", u.Email)

			dup := &models.User{ID: "u2", Name: "Other", Email: "ANA@example.com"}
			assert.True(t, errors.Is(s.CreateUser(ctx, dup), models.ErrConflict))

			got, err := s.GetUserByEmail(ctx, "ana@EXAMPLE.com")
			require.NoError(t, err)
			assert.Equal(t, "u1", got.ID)
			assert.Equal(t, "hash", got.PasswordHash)

			byID, err := s.GetUserByID(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", byID.Email)

			_, err = s.GetUserByEmail(ctx, "nobody@example.com")
			assert.True(t, errors.Is(err, models.ErrNotFound))
			_, err = s.GetUserByID(ctx, "missing")
			assert.True(t, errors.Is(err, models.ErrNotFound))
		})
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	f1, err := NewFile(dir)
	require.NoError(t, err)
	created, err := f1.Create(ctx, input("persisted"))
	require.NoError(t, err)

	f2, err := NewFile(dir)
	require.NoError(t, err)
	got, err := f2.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Title)
	assert.Equal(t, "ana@example.com", got.AuthorEmail)
}

func TestFileStoreRejectsPathTraversal(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	_, err = f.Get(context.Background(), "../users/x")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
