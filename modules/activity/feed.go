package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// Capacity is the number of entries kept before the oldest are dropped.
	Capacity = 500
	// DefaultLimit is used when a caller asks for no particular page size.
	DefaultLimit = 50
)

// Action names a task mutation.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Entry records one task mutation.
type Entry struct {
	ID        string    `json:"id"`
	TaskID    uint      `json:"task_id"`
	UserID    uint      `json:"user_id"`
	ActorID   uint      `json:"actor_id"`
	Action    Action    `json:"action"`
	Title     string    `json:"title"`
	Changed   []string  `json:"changed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed is a bounded, concurrency-safe ring of entries.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewFeed creates a feed holding at most capacity entries.
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = Capacity
	}
	return &Feed{entries: make([]Entry, capacity)}
}

// Record stores e, assigning an ID and timestamp when missing.
func (f *Feed) Record(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[f.next] = e
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
	return e
}

// Len returns the number of entries held.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.full {
		return len(f.entries)
	}
	return f.next
}

// Recent returns up to limit entries, newest first.
func (f *Feed) Recent(limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	size := f.next
	if f.full {
		size = len(f.entries)
	}
	limit = clampLimit(limit)
	if limit > size {
		limit = size
	}

	result := make([]Entry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.entries)) % len(f.entries)
		result = append(result, f.entries[idx])
	}
	return result
}

func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return DefaultLimit
	case limit > Capacity:
		return Capacity
	}
	return limit
}
