package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bilgisen/peacenet/internal/models"
)

// Memory keeps stories and users in process memory
type Memory struct {
	mu      sync.RWMutex
	stories map[string]models.Story
	users   map[string]models.User
	now     func() time.Time
	last    time.Time
}

func NewMemory() *Memory {
	return &Memory{
		stories: make(map[string]models.Story),
		users:   make(map[string]models.User),
		now:     time.Now,
	}
}

func (m *Memory) List(ctx context.Context, sort string) ([]models.Story, error) {
	return m.Filter(ctx, models.StoryFilter{}, sort)
}

func (m *Memory) Filter(ctx context.Context, filter models.StoryFilter, sort string) ([]models.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	out := make([]models.Story, 0, len(m.stories))
	for _, s := range m.stories {
		if filter.Match(s) {
			out = append(out, s)
		}
	}
	m.mu.RUnlock()

	if sort == "" {
		sort = models.SortNewestFirst
	}
	sortStories(out, sort)
	return out, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*models.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stories[id]
	if !ok {
		return nil, fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}
	return &s, nil
}

func (m *Memory) Create(ctx context.Context, input models.StoryInput) (*models.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// created_date is the only sort key, keep it strictly increasing
	now := m.now()
	if !now.After(m.last) {
		now = m.last.Add(time.Microsecond)
	}
	m.last = now

	s := newStory(input, now)
	m.stories[s.ID] = s

	return &s, nil
}

func (m *Memory) Update(ctx context.Context, id string, patch models.StoryPatch) (*models.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stories[id]
	if !ok {
		return nil, fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}
	s.Status = patch.Status
	m.stories[id] = s
	return &s, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stories[id]; !ok {
		return fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}
	delete(m.stories, id)
	return nil
}

func (m *Memory) CreateUser(ctx context.Context, user *models.User) error {
	email := NormalizeEmail(user.Email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.users[email]; taken {
		return fmt.Errorf("user %s: %w", email, models.ErrConflict)
	}
	user.Email = email
	if user.CreatedDate.IsZero() {
		user.CreatedDate = m.now().UTC()
	}
	m.users[email] = *user
	return nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = NormalizeEmail(email)

	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	return &u, nil
}

func (m *Memory) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
}
