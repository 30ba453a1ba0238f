package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/utils"
)

// File stores every entity as one JSON document under basePath:
// stories/<id>.json and users/<sha256(email)>.json
type File struct {
	basePath string
	mu       sync.RWMutex
	now      func() time.Time
	last     time.Time
}

func NewFile(basePath string) (*File, error) {
	for _, dir := range []string{"stories", "users"} {
		if err := os.MkdirAll(filepath.Join(basePath, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}

	return &File{
		basePath: basePath,
		now:      time.Now,
	}, nil
}

func (f *File) storyPath(id string) string {
	return filepath.Join(f.basePath, "stories", filepath.Base(id)+".json")
}

func (f *File) userPath(email string) string {
	return filepath.Join(f.basePath, "users", utils.Hash(NormalizeEmail(email))+".json")
}

func (f *File) List(ctx context.Context, sort string) ([]models.Story, error) {
	return f.Filter(ctx, models.StoryFilter{}, sort)
}

func (f *File) Filter(ctx context.Context, filter models.StoryFilter, sort string) ([]models.Story, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(f.basePath, "stories"))
	if err != nil {
		return nil, fmt.Errorf("error reading stories directory: %w", err)
	}

	stories := make([]models.Story, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		var s models.Story
		if err := readJSON(filepath.Join(f.basePath, "stories", entry.Name()), &s); err != nil {
			return nil, err
		}
		if filter.Match(s) {
			stories = append(stories, s)
		}
	}

	if sort == "" {
		sort = models.SortNewestFirst
	}
	sortStories(stories, sort)
	return stories, nil
}

func (f *File) Get(ctx context.Context, id string) (*models.Story, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.get(id)
}

func (f *File) get(id string) (*models.Story, error) {
	var s models.Story
	if err := readJSON(f.storyPath(id), &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("story %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

func (f *File) Create(ctx context.Context, input models.StoryInput) (*models.Story, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if !now.After(f.last) {
		now = f.last.Add(time.Microsecond)
	}
	f.last = now

	s := newStory(input, now)
	if err := writeJSON(f.storyPath(s.ID), s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (f *File) Update(ctx context.Context, id string, patch models.StoryPatch) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.get(id)
	if err != nil {
		return nil, err
	}

	s.Status = patch.Status
	if err := writeJSON(f.storyPath(id), s); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *File) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.storyPath(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("story %s: %w", id, models.ErrNotFound)
		}
		return fmt.Errorf("failed to delete story file: %w", err)
	}
	return nil
}

func (f *File) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user.Email = NormalizeEmail(user.Email)
	path := f.userPath(user.Email)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("user %s: %w", user.Email, models.ErrConflict)
	}

	if user.CreatedDate.IsZero() {
		user.CreatedDate = f.now().UTC()
	}
	return writeJSON(path, userRecord{User: *user, PasswordHash: user.PasswordHash, GoogleID: user.GoogleID})
}

func (f *File) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.readUser(f.userPath(email), email)
}

func (f *File) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(f.basePath, "users"))
	if err != nil {
		return nil, fmt.Errorf("error reading users directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		u, err := f.readUser(filepath.Join(f.basePath, "users", entry.Name()), entry.Name())
		if err != nil {
			return nil, err
		}
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
}

func (f *File) readUser(path, key string) (*models.User, error) {
	var rec userRecord
	if err := readJSON(path, &rec); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("user %s: %w", key, models.ErrNotFound)
		}
		return nil, err
	}
	u := rec.User
	u.PasswordHash = rec.PasswordHash
	u.GoogleID = rec.GoogleID
	return &u, nil
}

// userRecord persists the fields models.User hides from JSON
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
	GoogleID     string `json:"google_id,omitempty"`
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

// writeJSON replaces path atomically via a temp file and rename
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
