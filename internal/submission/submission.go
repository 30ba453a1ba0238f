// Package submission turns user input into pending stories.
package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/bilgisen/peacenet/internal/lifecycle"
	"github.com/bilgisen/peacenet/internal/logger"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/store"
	"github.com/bilgisen/peacenet/internal/validation"
	"github.com/rs/zerolog"
)

// Invalidator drops cached public views after a write
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	stories    store.StoryStore
	normalizer *Normalizer
	validator  *validation.Validator
	invalidate Invalidator
	log        zerolog.Logger
}

func NewService(stories store.StoryStore, v *validation.Validator, invalidate Invalidator) *Service {
	return &Service{
		stories:    stories,
		normalizer: NewNormalizer(),
		validator:  v,
		invalidate: invalidate,
		log:        logger.Component("submission"),
	}
}

// Submit stores a new story for review. The author email always comes from
// the principal, the author name falls back to the principal's name, and
// the status is forced to pending whatever the client sent.
func (s *Service) Submit(ctx context.Context, p models.Principal, in models.StoryInput) (*models.Story, error) {
	if p.Email == "" {
		return nil, fmt.Errorf("%w: sign in to submit a story", models.ErrAuth)
	}

	in = s.normalizer.NormalizeInput(in)
	in.AuthorEmail = p.Email
	if in.AuthorName == "" {
		in.AuthorName = s.normalizer.CleanLine(p.Name)
	}
	in.Status = lifecycle.Initial

	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	story, err := s.stories.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	s.log.Info().
		Str("id", story.ID).
		Str("user_id", p.UserID).
		Str("category", string(story.Category)).
		Msg("Story submitted")

	if s.invalidate != nil {
		if err := s.invalidate.Invalidate(ctx); err != nil {
			s.log.Error().Err(err).Msg("Failed to invalidate public story cache")
		}
	}
	return story, nil
}

// Mine lists the principal's own stories in every status, newest first
func (s *Service) Mine(ctx context.Context, p models.Principal) ([]models.Story, error) {
	if p.Email == "" {
		return nil, fmt.Errorf("%w: sign in to see your stories", models.ErrAuth)
	}

	stories, err := s.stories.Filter(ctx, models.StoryFilter{AuthorEmail: p.Email}, models.SortNewestFirst)
	if err != nil {
		if errors.Is(err, models.ErrNetwork) {
			s.log.Warn().Err(err).Msg("Store unavailable, returning empty story list")
			return []models.Story{}, nil
		}
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}
