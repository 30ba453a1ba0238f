package browse

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/bilgisen/peacenet/internal/cache"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/moderation"
	"github.com/bilgisen/peacenet/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outage struct{ store.StoryStore }

func (outage) List(ctx context.Context, sort string) ([]models.Story, error) {
	return nil, models.ErrNetwork
}

func (outage) Filter(ctx context.Context, f models.StoryFilter, sort string) ([]models.Story, error) {
	return nil, models.ErrNetwork
}

func newStory(t *testing.T, s store.StoryStore, title, location string) *models.Story {
	t.Helper()
	created, err := s.Create(context.Background(), models.StoryInput{
		Title:       title,
		Content:     "body of " + title,
		AuthorName:  "Ana",
		AuthorEmail: "ana@example.com",
		Location:    location,
		Category:    models.CategoryKindness,
	})
	require.NoError(t, err)
	return created
}

func TestListApprovedOnlyApproved(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	svc := NewService(s, cache.NewMemoryClient(), time.Minute)
	mod := moderation.New(s, svc, models.AdminSession{Authenticated: true})

	pending := newStory(t, s, "pending", "")
	approved := newStory(t, s, "approved", "")
	rejected := newStory(t, s, "rejected", "")
	_, err := mod.Approve(ctx, approved.ID)
	require.NoError(t, err)
	_, err = mod.Reject(ctx, rejected.ID)
	require.NoError(t, err)

	list, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{approved.ID}, ids(list))

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "author_email")
	assert.NotContains(t, string(data), "ana@example.com")

	_, err = svc.Get(ctx, pending.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	got, err := svc.Get(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Title)
}

func TestModerationRefreshesCachedView(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	svc := NewService(s, cache.NewMemoryClient(), time.Hour)
	mod := moderation.New(s, svc, models.AdminSession{Authenticated: true})

	a := newStory(t, s, "Free coffee for strangers", "")

	list, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = mod.Approve(ctx, a.ID)
	require.NoError(t, err)

	list, err = svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(list))

	found, err := svc.Search(ctx, "COFFEE", "kindness")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(found))

	_, err = mod.Reject(ctx, a.ID)
	require.NoError(t, err)

	found, err = svc.Search(ctx, "COFFEE", "kindness")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestListApprovedDegradesOnOutage(t *testing.T) {
	c := cache.NewMemoryClient()
	svc := NewService(outage{store.NewMemory()}, c, time.Minute)

	list, err := svc.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	ok, _ := c.Exists(context.Background(), svc.cacheKey(context.Background(), keyApproved))
	assert.False(t, ok, "outage results must not be cached")

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	svc := NewService(s, cache.NewMemoryClient(), time.Minute)
	mod := moderation.New(s, svc, models.AdminSession{Authenticated: true})

	a := newStory(t, s, "a", "Pune")
	newStory(t, s, "b", "Pune")
	newStory(t, s, "c", "Lisbon")
	_, err := mod.Approve(ctx, a.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{StoriesShared: 1, CountriesReached: 2, ActiveCommunity: 1}, stats)
}

// pausingStore holds the first Filter call between the store read and its
// return until release is closed
type pausingStore struct {
	store.StoryStore
	fetched chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *pausingStore) Filter(ctx context.Context, f models.StoryFilter, sort string) ([]models.Story, error) {
	stories, err := p.StoryStore.Filter(ctx, f, sort)
	p.once.Do(func() {
		close(p.fetched)
		<-p.release
	})
	return stories, err
}

func TestReaderCannotCacheSnapshotOlderThanModeration(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	paused := &pausingStore{StoryStore: s, fetched: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(paused, cache.NewMemoryClient(), time.Hour)
	mod := moderation.New(s, svc, models.AdminSession{Authenticated: true})

	a := newStory(t, s, "Free coffee for strangers", "")

	done := make(chan []models.PublicStory)
	go func() {
		list, err := svc.ListApproved(ctx)
		assert.NoError(t, err)
		done <- list
	}()

	<-paused.fetched
	_, err := mod.Approve(ctx, a.ID)
	require.NoError(t, err)
	close(paused.release)

	assert.Empty(t, <-done, "the slow reader saw the pre-approval snapshot")

	list, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(list))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.StoriesShared)
}
