package limiter

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local fixed-window limiter. Entries are created
// lazily and replaced when their window lapses; there is no eviction,
// so the map grows with the number of distinct client keys seen over
// the process lifetime.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow admits up to MaxRequests per key per Window. A capped entry is
// left untouched, so denied requests do not extend or inflate the
// window.
func (m *Memory) Allow(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || now.After(e.resetAt) {
		m.entries[key] = &entry{count: 1, resetAt: now.Add(Window)}
		return true
	}
	if e.count >= MaxRequests {
		return false
	}
	e.count++
	return true
}
