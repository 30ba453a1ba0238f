// Package lifecycle is the single authority on a story's publication status.
//
//	pending  --approve--> approved
//	pending  --reject---> rejected
//	approved --reject---> rejected
//	rejected --approve--> approved
//	any      --delete---> (removed)
//
// Nothing leads back to pending, and repeating an action is a no-op.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/store"
)

// Action is a moderation decision
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
)

// Initial is the status of every newly created story
const Initial = models.StatusPending

// Visible reports whether a story belongs on the public surface
func Visible(s models.Story) bool {
	return s.Status == models.StatusApproved
}

// Next computes the status reached by applying action to current.
// deleted is true for ActionDelete, in which case next is meaningless.
func Next(current models.Status, action Action) (next models.Status, deleted bool, err error) {
	if !current.Valid() {
		return "", false, fmt.Errorf("%w: unknown status %q", models.ErrInvalidTransition, current)
	}

	switch action {
	case ActionApprove:
		return models.StatusApproved, false, nil
	case ActionReject:
		return models.StatusRejected, false, nil
	case ActionDelete:
		return "", true, nil
	}
	return "", false, fmt.Errorf("%w: unknown action %q", models.ErrInvalidTransition, action)
}

// Machine applies transitions to stories held in a store
type Machine struct {
	stories store.StoryStore
}

func NewMachine(stories store.StoryStore) *Machine {
	return &Machine{stories: stories}
}

// Transition applies action to the story with the given id. It returns the
// updated story, or nil after a delete. A missing story yields
// models.ErrNotFound. Concurrent moderators race last-write-wins.
func (m *Machine) Transition(ctx context.Context, id string, action Action) (*models.Story, error) {
	current, err := m.stories.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, deleted, err := Next(current.Status, action)
	if err != nil {
		return nil, err
	}

	if deleted {
		if err := m.stories.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if next == current.Status {
		return current, nil
	}

	return m.stories.Update(ctx, id, models.StoryPatch{Status: next})
}
