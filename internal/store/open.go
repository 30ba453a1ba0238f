package store

import (
	"fmt"

	"github.com/bilgisen/peacenet/internal/config"
)

// Backend bundles the stores selected by configuration
type Backend struct {
	Stories StoryStore
	Users   UserStore
	close   func() error
}

// Close releases database connections, if any
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open builds the backend named by cfg.StoreDriver. The remote entity API
// only hosts stories; accounts then live in the file store at StoragePath.
func Open(cfg *config.Config) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		m := NewMemory()
		return &Backend{Stories: m, Users: m}, nil

	case config.DriverFile:
		f, err := NewFile(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Stories: f, Users: f}, nil

	case config.DriverRemote:
		users, err := NewFile(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Stories: NewRemote(cfg.StoreURL, cfg.StoreAPIKey, cfg.HTTPTimeout),
			Users:   users,
		}, nil

	case config.DriverPostgres:
		pg, err := NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Backend{Stories: pg, Users: pg, close: pg.Close}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
