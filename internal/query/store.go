package query

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// State is the lifecycle of one cache entry.
type State string

const (
	StatePending State = "pending"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Entry is one cached query result. Invalidation marks an entry stale; stale
// entries are refreshed on next access, never destroyed.
type Entry struct {
	Data      json.RawMessage `json:"data,omitempty"`
	FetchedAt time.Time       `json:"fetched_at"`
	State     State           `json:"state"`
	Error     string          `json:"error,omitempty"`
	Stale     bool            `json:"stale"`
}

// Store is a cache entry backend. The in-process memory store is the
// default; the Redis store serves shared gateway deployments.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key string, entry *Entry) error
	MarkStale(ctx context.Context, key string) error
	MarkStalePrefix(ctx context.Context, prefix string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps entries in a process-local map.
type MemoryStore struct {
	entries map[string]*Entry
	mu      sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	copied := *entry
	return &copied, true
}

func (s *MemoryStore) Set(_ context.Context, key string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	s.entries[key] = &copied
	return nil
}

func (s *MemoryStore) MarkStale(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok {
		entry.Stale = true
	}
	return nil
}

func (s *MemoryStore) MarkStalePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if strings.HasPrefix(key, prefix) {
			entry.Stale = true
		}
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
