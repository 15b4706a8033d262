package limiter

import (
	"context"
	"testing"
	"time"
)

func TestMemoryAllowWithinCap(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < MaxRequests; i++ {
		if !m.Allow(ctx, "10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if m.Allow(ctx, "10.0.0.1") {
		t.Errorf("request %d should be denied", MaxRequests+1)
	}
}

func TestMemoryDenialDoesNotMutate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < MaxRequests; i++ {
		m.Allow(ctx, "k")
	}
	for i := 0; i < 5; i++ {
		m.Allow(ctx, "k")
	}

	m.mu.Lock()
	count := m.entries["k"].count
	m.mu.Unlock()
	if count != MaxRequests {
		t.Errorf("count = %d, want %d (denied requests must not increment)", count, MaxRequests)
	}
}

func TestMemoryWindowReset(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }

	for i := 0; i < MaxRequests; i++ {
		m.Allow(ctx, "k")
	}
	if m.Allow(ctx, "k") {
		t.Fatal("should be denied within window")
	}

	// Advance past the window boundary.
	m.now = func() time.Time { return now.Add(Window + time.Second) }

	if !m.Allow(ctx, "k") {
		t.Fatal("should be allowed after window lapses")
	}

	m.mu.Lock()
	count := m.entries["k"].count
	m.mu.Unlock()
	if count != 1 {
		t.Errorf("count after reset = %d, want 1", count)
	}
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < MaxRequests; i++ {
		m.Allow(ctx, "a")
	}
	if m.Allow(ctx, "a") {
		t.Error("key a should be exhausted")
	}
	if !m.Allow(ctx, "b") {
		t.Error("key b should be unaffected")
	}
}
