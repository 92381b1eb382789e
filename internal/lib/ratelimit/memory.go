package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweep the whole map once per this many calls so authors that went quiet
// do not keep their windows around forever.
const sweepEvery = 1024

// Memory is the in-process limiter for single-instance deployments.
// The read-prune-append sequence runs under one lock, so two concurrent
// submissions from the same author cannot both take the last slot.
type Memory struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	max     int
	window  time.Duration
	calls   int

	now func() time.Time
}

func NewMemory(max int, window time.Duration) *Memory {
	return &Memory{
		windows: make(map[string][]time.Time),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

func (m *Memory) Allow(ctx context.Context, authorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-m.window)

	m.calls++
	if m.calls%sweepEvery == 0 {
		m.sweep(cutoff)
	}

	kept := m.windows[authorID][:0]
	for _, ts := range m.windows[authorID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= m.max {
		m.windows[authorID] = kept
		return false, nil
	}

	m.windows[authorID] = append(kept, now)
	return true, nil
}

func (m *Memory) sweep(cutoff time.Time) {
	for author, window := range m.windows {
		stale := true
		for _, ts := range window {
			if ts.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(m.windows, author)
		}
	}
}
