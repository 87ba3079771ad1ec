package client

import (
	"encoding/json"
	"time"

	domain "github.com/example/taskboard/domain/task"
)

// DefaultCacheTTL is how long a task-list snapshot stays usable.
const DefaultCacheTTL = 5 * time.Minute

// SnapshotCache is a disposable, time-boxed snapshot of the task list,
// used only to paint the board before a network round-trip completes.
// It is never consulted to decide the outcome of a mutation. A snapshot
// is always replaced wholesale, never partially updated.
type SnapshotCache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewSnapshotCache creates a cache over the given store with the
// default TTL.
func NewSnapshotCache(store Store) *SnapshotCache {
	return &SnapshotCache{
		store: store,
		ttl:   DefaultCacheTTL,
		now:   time.Now,
	}
}

// Get returns the cached snapshot. It reports absent when no snapshot
// was ever stored, when the stored one cannot be decoded, or when its
// capture time is older than the TTL; an expired or undecodable
// snapshot self-evicts as a side effect of the read.
func (c *SnapshotCache) Get() ([]domain.Task, bool) {
	capturedAtRaw, ok := c.store.Get(KeyCapturedAt)
	if !ok {
		return nil, false
	}

	capturedAt, err := time.Parse(time.RFC3339Nano, capturedAtRaw)
	if err != nil || c.now().Sub(capturedAt) > c.ttl {
		c.Clear()
		return nil, false
	}

	raw, ok := c.store.Get(KeySnapshot)
	if !ok {
		return nil, false
	}

	var tasks []domain.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		c.Clear()
		return nil, false
	}
	return tasks, true
}

// Set replaces the entire snapshot and resets the capture time to now.
func (c *SnapshotCache) Set(tasks []domain.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	if err := c.store.Set(KeySnapshot, string(data)); err != nil {
		return err
	}
	return c.store.Set(KeyCapturedAt, c.now().Format(time.RFC3339Nano))
}

// Clear drops the snapshot.
func (c *SnapshotCache) Clear() {
	_ = c.store.Delete(KeySnapshot)
	_ = c.store.Delete(KeyCapturedAt)
}
