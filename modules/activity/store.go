package activity

import (
	"sync"
	"time"
)

// Entry is one recorded task lifecycle event.
type Entry struct {
	Action     string    `json:"action"`
	TaskID     string    `json:"taskId"`
	Detail     string    `json:"detail,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Store keeps a bounded, in-memory record of recent task lifecycle
// entries, newest first. When the bound is reached the oldest entries
// are dropped.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
}

// NewStore creates a store bounded to the given number of entries.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = 100
	}
	return &Store{
		entries: make([]Entry, 0, limit),
		limit:   limit,
	}
}

// Add records an entry.
func (s *Store) Add(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	if len(s.entries) > s.limit {
		s.entries = s.entries[len(s.entries)-s.limit:]
	}
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}

	out := make([]Entry, 0, limit)
	for i := len(s.entries) - 1; i >= len(s.entries)-limit; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
