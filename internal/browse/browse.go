// Package browse produces the reader-facing view of approved stories.
package browse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bilgisen/peacenet/internal/cache"
	"github.com/bilgisen/peacenet/internal/lifecycle"
	"github.com/bilgisen/peacenet/internal/logger"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/store"
	"github.com/bilgisen/peacenet/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Cache keys; everything under keyPrefix is dropped on Invalidate. Entries
// are stored under "<key>@<generation>" and Invalidate starts a new
// generation, so a reader that fetched before a write can only ever fill a
// key nobody reads anymore.
const (
	keyPrefix     = "stories:"
	keyApproved   = keyPrefix + "approved"
	keySearch     = keyPrefix + "search:"
	keyStats      = keyPrefix + "stats"
	keyGeneration = "generation:stories"
)

// Stats are the community counters of the about page
type Stats struct {
	StoriesShared    int `json:"stories_shared"`
	CountriesReached int `json:"countries_reached"`
	ActiveCommunity  int `json:"active_community"`
}

// Service serves approved stories. It only ever asks the store for
// approved stories, and only ever returns models.PublicStory.
type Service struct {
	stories store.StoryStore
	cache   cache.Cache
	ttl     time.Duration
	log     zerolog.Logger
}

func NewService(stories store.StoryStore, c cache.Cache, ttl time.Duration) *Service {
	return &Service{
		stories: stories,
		cache:   c,
		ttl:     ttl,
		log:     logger.Component("browse"),
	}
}

// ListApproved returns approved stories newest first. A store outage
// yields an empty list, which is not cached.
func (s *Service) ListApproved(ctx context.Context) ([]models.PublicStory, error) {
	key := s.cacheKey(ctx, keyApproved)
	var cached []models.PublicStory
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	stories, err := s.stories.Filter(ctx, models.StoryFilter{Status: models.StatusApproved}, models.SortNewestFirst)
	if err != nil {
		if errors.Is(err, models.ErrNetwork) {
			s.log.Warn().Err(err).Msg("Store unavailable, returning empty story list")
			return []models.PublicStory{}, nil
		}
		return nil, fmt.Errorf("failed to list approved stories: %w", err)
	}

	public := make([]models.PublicStory, 0, len(stories))
	for _, st := range stories {
		// the store filter is trusted, but never leak a non-approved story
		if lifecycle.Visible(st) {
			public = append(public, st.Public())
		}
	}

	s.setCached(ctx, key, public)
	return public, nil
}

// Search applies Search to the approved list and caches the result per query
func (s *Service) Search(ctx context.Context, query, category string) ([]models.PublicStory, error) {
	if query == "" && (category == "" || category == CategoryAll) {
		return s.ListApproved(ctx)
	}

	key := s.cacheKey(ctx, keySearch+utils.Hash(category+"\x00"+query))
	var cached []models.PublicStory
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	approved, err := s.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	result := Search(approved, query, category)
	if len(approved) > 0 {
		s.setCached(ctx, key, result)
	}
	return result, nil
}

// Get returns one approved story; anything else is reported as not found
func (s *Service) Get(ctx context.Context, id string) (*models.PublicStory, error) {
	story, err := s.stories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.Visible(*story) {
		return nil, fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}
	public := story.Public()
	return &public, nil
}

// Stats counts approved stories and the distinct locations and author
// names across all stories
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	key := s.cacheKey(ctx, keyStats)
	var cached Stats
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	all, err := s.stories.List(ctx, "")
	if err != nil {
		if errors.Is(err, models.ErrNetwork) {
			s.log.Warn().Err(err).Msg("Store unavailable, returning empty stats")
			return Stats{}, nil
		}
		return Stats{}, fmt.Errorf("failed to compute stats: %w", err)
	}

	var stats Stats
	locations := make(map[string]struct{})
	authors := make(map[string]struct{})
	for _, st := range all {
		if lifecycle.Visible(st) {
			stats.StoriesShared++
		}
		if st.Location != "" {
			locations[st.Location] = struct{}{}
		}
		if st.AuthorName != "" {
			authors[st.AuthorName] = struct{}{}
		}
	}
	stats.CountriesReached = len(locations)
	stats.ActiveCommunity = len(authors)

	s.setCached(ctx, key, stats)
	return stats, nil
}

// Invalidate starts a new cache generation and drops every cached public view
func (s *Service) Invalidate(ctx context.Context) error {
	genErr := s.cache.Set(ctx, keyGeneration, []byte(uuid.NewString()), 0)
	if err := s.cache.DeletePrefix(ctx, keyPrefix); err != nil {
		return fmt.Errorf("failed to invalidate story cache: %w", err)
	}
	if genErr != nil {
		return fmt.Errorf("failed to start cache generation: %w", genErr)
	}
	return nil
}

// cacheKey binds base to the current generation. An empty key disables
// caching for the call.
func (s *Service) cacheKey(ctx context.Context, base string) string {
	gen, ok, err := s.cache.Get(ctx, keyGeneration)
	if err != nil {
		s.log.Warn().Err(err).Msg("Cache generation read failed")
		return ""
	}
	if !ok {
		return base
	}
	return base + "@" + string(gen)
}

func (s *Service) getCached(ctx context.Context, key string, v interface{}) bool {
	if key == "" {
		return false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Discarding corrupt cache entry")
		return false
	}
	return true
}

func (s *Service) setCached(ctx context.Context, key string, v interface{}) {
	if key == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
