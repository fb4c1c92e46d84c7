// Package memory implements the cache store as a process-local map. It
// backs tests and the in-process SDK when no external store is set.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/talentdex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type item struct {
	value   []byte
	expires time.Time
}

// Store is a mutex-guarded map with lazy expiry.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{items: make(map[string]item), now: time.Now}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close drops every entry.
func (s *Store) Close() {
	s.mu.Lock()
	s.items = make(map[string]item)
	s.mu.Unlock()
}

// WaitForReady returns at once.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Get retrieves a copy of the value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || (!it.expires.IsZero() && !s.now().Before(it.expires)) {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), it.value...), nil
}

// Set stores a copy of value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a value with an expiration. A non-positive ttl
// stores without expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	it := item{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
	return nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}
