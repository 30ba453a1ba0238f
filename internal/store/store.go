// Package store provides the entity store behind stories and user accounts.
// Backends: in-memory, JSON files, a remote entity API and PostgreSQL.
package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/google/uuid"
)

// StoryStore is the CRUD contract over the Story collection.
// Create always persists the story as pending. Update, Get and Delete
// return models.ErrNotFound for unknown ids.
type StoryStore interface {
	List(ctx context.Context, sort string) ([]models.Story, error)
	Filter(ctx context.Context, filter models.StoryFilter, sort string) ([]models.Story, error)
	Get(ctx context.Context, id string) (*models.Story, error)
	Create(ctx context.Context, input models.StoryInput) (*models.Story, error)
	Update(ctx context.Context, id string, patch models.StoryPatch) (*models.Story, error)
	Delete(ctx context.Context, id string) error
}

// UserStore persists accounts. CreateUser returns models.ErrConflict when
// the email is taken; lookups return models.ErrNotFound.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// newStory builds the persisted form of a submission
func newStory(input models.StoryInput, now time.Time) models.Story {
	category := input.Category
	if category == "" {
		category = models.DefaultCategory
	}
	return models.Story{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Content:     input.Content,
		AuthorName:  input.AuthorName,
		AuthorEmail: input.AuthorEmail,
		Location:    input.Location,
		Category:    category,
		ImageURL:    input.ImageURL,
		Status:      models.StatusPending,
		CreatedDate: now.UTC(),
	}
}

// sortStories orders stories by created_date; "-created_date" is newest first.
// Any other key leaves the order untouched.
func sortStories(stories []models.Story, key string) {
	switch key {
	case models.SortNewestFirst:
		sort.SliceStable(stories, func(i, j int) bool {
			return stories[i].CreatedDate.After(stories[j].CreatedDate)
		})
	case "created_date":
		sort.SliceStable(stories, func(i, j int) bool {
			return stories[i].CreatedDate.Before(stories[j].CreatedDate)
		})
	}
}

// NormalizeEmail is the canonical form used as the unique account key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
