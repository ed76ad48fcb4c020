package session

import (
	"context"
	"encoding/json"
	"time"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot notification rendered by the next page.
type Flash struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Flashes stores at most one pending flash per session; a newer flash replaces an older one.
type Flashes struct {
	store Store
	ttl   time.Duration
}

// NewFlashes returns flash storage.
func NewFlashes(store Store, ttl time.Duration) *Flashes {
	return &Flashes{store: store, ttl: ttl}
}

// Add queues f for sid.
func (f *Flashes) Add(ctx context.Context, sid string, flash Flash) error {
	data, err := json.Marshal(flash)
	if err != nil {
		return err
	}
	return f.store.PutValue(ctx, ValueKey(sid, "flash"), string(data), f.ttl)
}

// Take consumes the pending flash.
func (f *Flashes) Take(ctx context.Context, sid string) (*Flash, error) {
	raw, ok, err := f.store.TakeValue(ctx, ValueKey(sid, "flash"))
	if err != nil || !ok {
		return nil, err
	}
	var flash Flash
	if err := json.Unmarshal([]byte(raw), &flash); err != nil {
		return nil, err
	}
	return &flash, nil
}
