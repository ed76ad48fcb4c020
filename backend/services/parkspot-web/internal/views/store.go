package views

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parkspot/backend/services/parkspot-web/internal/session"
)

// StateStore persists list state per session and view name.
type StateStore struct {
	store session.Store
	ttl   time.Duration
}

// NewStateStore returns view state storage.
func NewStateStore(store session.Store, ttl time.Duration) *StateStore {
	return &StateStore{store: store, ttl: ttl}
}

// Load reads the saved state of view into out and reports whether one existed.
func (s *StateStore) Load(ctx context.Context, sid, view string, out any) (bool, error) {
	raw, ok, err := s.store.GetValue(ctx, session.ValueKey(sid, "view", view))
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("views: decode %s state: %w", view, err)
	}
	return true, nil
}

// Save writes state of view.
func (s *StateStore) Save(ctx context.Context, sid, view string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("views: encode %s state: %w", view, err)
	}
	return s.store.PutValue(ctx, session.ValueKey(sid, "view", view), string(data), s.ttl)
}
