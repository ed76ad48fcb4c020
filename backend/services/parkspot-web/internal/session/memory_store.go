package session

import (
	"context"
	"sync"
	"time"
)

type memoryValue struct {
	value   string
	expires time.Time
}

func (v memoryValue) expired(now time.Time) bool {
	return !v.expires.IsZero() && now.After(v.expires)
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu     sync.Mutex
	now    func() time.Time
	hashes map[string]map[string]string
	values map[string]memoryValue
}

// NewMemoryStore returns empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:    time.Now,
		hashes: make(map[string]map[string]string),
		values: make(map[string]memoryValue),
	}
}

// Load returns a copy of the fields of sid.
func (s *MemoryStore) Load(_ context.Context, sid string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.hashes[sid]))
	for k, v := range s.hashes[sid] {
		out[k] = v
	}
	return out, nil
}

// Save merges fields into sid.
func (s *MemoryStore) Save(_ context.Context, sid string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[sid]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[sid] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

// Clear deletes fields from sid.
func (s *MemoryStore) Clear(_ context.Context, sid string, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fields {
		delete(s.hashes[sid], f)
	}
	return nil
}

// PutValue stores value under key. A zero ttl never expires.
func (s *MemoryStore) PutValue(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := memoryValue{value: value}
	if ttl > 0 {
		v.expires = s.now().Add(ttl)
	}
	s.values[key] = v
	return nil
}

// GetValue reads key.
func (s *MemoryStore) GetValue(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.lookup(key)
	return v.value, ok, nil
}

// TakeValue reads and deletes key.
func (s *MemoryStore) TakeValue(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.lookup(key)
	delete(s.values, key)
	return v.value, ok, nil
}

func (s *MemoryStore) lookup(key string) (memoryValue, bool) {
	v, ok := s.values[key]
	if !ok {
		return memoryValue{}, false
	}
	if v.expired(s.now()) {
		delete(s.values, key)
		return memoryValue{}, false
	}
	return v, true
}
