// Package moderation applies admin decisions to stories.
package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/bilgisen/peacenet/internal/lifecycle"
	"github.com/bilgisen/peacenet/internal/logger"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/store"
	"github.com/rs/zerolog"
)

// FilterAll lists stories in every status
const FilterAll = "all"

// Authorizer answers whether the caller may moderate
type Authorizer interface {
	Authorized() bool
}

// Invalidator drops cached public views after a write
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Counts is the number of stories per status
type Counts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	All      int `json:"all"`
}

// Workflow is the moderation surface for one admin session
type Workflow struct {
	stories    store.StoryStore
	machine    *lifecycle.Machine
	invalidate Invalidator
	session    Authorizer
	log        zerolog.Logger
}

// New binds the moderation workflow to session. Every operation fails with
// models.ErrForbidden unless the session is authorized.
func New(stories store.StoryStore, invalidate Invalidator, session Authorizer) *Workflow {
	return &Workflow{
		stories:    stories,
		machine:    lifecycle.NewMachine(stories),
		invalidate: invalidate,
		session:    session,
		log:        logger.Component("moderation"),
	}
}

func (w *Workflow) authorize() error {
	if w.session == nil || !w.session.Authorized() {
		return models.ErrForbidden
	}
	return nil
}

// ParseFilter validates a status filter; the empty string means pending
func ParseFilter(raw string) (models.Status, error) {
	switch raw {
	case "":
		return models.StatusPending, nil
	case FilterAll:
		return "", nil
	}
	status := models.Status(raw)
	if !status.Valid() {
		return "", models.NewValidationError("status", "oneof")
	}
	return status, nil
}

// List returns the stories matching statusFilter, newest first. A store
// outage yields an empty list rather than an error.
func (w *Workflow) List(ctx context.Context, statusFilter string) ([]models.Story, error) {
	if err := w.authorize(); err != nil {
		return nil, err
	}

	status, err := ParseFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	var stories []models.Story
	if status == "" {
		stories, err = w.stories.List(ctx, models.SortNewestFirst)
	} else {
		stories, err = w.stories.Filter(ctx, models.StoryFilter{Status: status}, models.SortNewestFirst)
	}
	if err != nil {
		if errors.Is(err, models.ErrNetwork) {
			w.log.Warn().Err(err).Str("filter", statusFilter).Msg("Store unavailable, returning empty moderation list")
			return []models.Story{}, nil
		}
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

// Counts tallies stories per status for the dashboard
func (w *Workflow) Counts(ctx context.Context) (Counts, error) {
	stories, err := w.List(ctx, FilterAll)
	if err != nil {
		return Counts{}, err
	}

	var c Counts
	for _, s := range stories {
		switch s.Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusApproved:
			c.Approved++
		case models.StatusRejected:
			c.Rejected++
		}
	}
	c.All = len(stories)
	return c, nil
}

// Approve publishes a story
func (w *Workflow) Approve(ctx context.Context, id string) (*models.Story, error) {
	return w.apply(ctx, id, lifecycle.ActionApprove)
}

// Reject hides a story from the public surface
func (w *Workflow) Reject(ctx context.Context, id string) (*models.Story, error) {
	return w.apply(ctx, id, lifecycle.ActionReject)
}

// Delete permanently removes a story. confirmed must carry the moderator's
// explicit confirmation; without it the store is not touched.
func (w *Workflow) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := w.authorize(); err != nil {
		return err
	}
	if !confirmed {
		return models.ErrConfirmationRequired
	}

	if _, err := w.machine.Transition(ctx, id, lifecycle.ActionDelete); err != nil {
		return fmt.Errorf("failed to delete story %s: %w", id, err)
	}

	w.log.Info().Str("id", id).Msg("Story deleted")
	w.refresh(ctx)
	return nil
}

func (w *Workflow) apply(ctx context.Context, id string, action lifecycle.Action) (*models.Story, error) {
	if err := w.authorize(); err != nil {
		return nil, err
	}

	story, err := w.machine.Transition(ctx, id, action)
	if err != nil {
		return nil, fmt.Errorf("failed to %s story %s: %w", action, id, err)
	}

	w.log.Info().
		Str("id", id).
		Str("action", string(action)).
		Str("status", string(story.Status)).
		Msg("Story moderated")

	w.refresh(ctx)
	return story, nil
}

// refresh invalidates the public view. The write has already happened, so
// a cache failure is logged; entries still expire after the cache TTL.
func (w *Workflow) refresh(ctx context.Context) {
	if w.invalidate == nil {
		return
	}
	if err := w.invalidate.Invalidate(ctx); err != nil {
		w.log.Error().Err(err).Msg("Failed to invalidate public story cache")
	}
}
