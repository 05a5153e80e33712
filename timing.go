package stagger

import (
	"math"
	"sync"
	"time"
)

// GroupWindow is the longest gap between two delay requests that still
// belong to the same stagger batch. A longer gap starts a new batch at 0.
const GroupWindow = 100 * time.Millisecond

// Timing accumulates per-node delay requests into cumulative stagger delays.
// One Timing is normally shared by every node of a logical tree. Requests
// are serialized through a mutex so the grouping window stays ordered even
// when several trees share an instance.
type Timing struct {
	mu  sync.Mutex
	now func() time.Time

	lastEvent time.Time
	running   time.Duration // committed delay for the current batch
	pending   time.Duration // largest request since the last commit
}

// NewTiming creates a Timing backed by the wall clock.
func NewTiming() *Timing {
	return NewTimingWithClock(time.Now)
}

// NewTimingWithClock creates a Timing that reads the current time from now.
// Tests and scripted scenarios use this to control the grouping window.
func NewTimingWithClock(now func() time.Time) *Timing {
	if now == nil {
		panic("stagger: nil clock")
	}
	return &Timing{now: now}
}

// RequestDelay records a request for amount and returns the delay the caller
// should apply. When commit is true the pending delay is folded into the
// running total and amount becomes the baseline for the next sibling.
//
// The first request of a batch never raises the pending delay, so a leaf
// only receives its own slot after a sibling has already claimed one.
func (t *Timing) RequestDelay(amount time.Duration, commit bool) time.Duration {
	if amount < 0 {
		panic("stagger: negative delay request")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastEvent) > GroupWindow {
		t.running = 0
		t.pending = 0
	}
	t.lastEvent = now

	if t.running > 0 || t.pending > 0 {
		t.pending = max(t.pending, amount)
	}

	delay := addDelay(t.running, t.pending)
	if commit {
		t.running = delay
		t.pending = amount
	}
	return delay
}

// addDelay adds two non-negative durations, saturating at the largest
// representable duration.
func addDelay(a, b time.Duration) time.Duration {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// Reset discards the current batch so the next request starts at 0
// regardless of the grouping window.
func (t *Timing) Reset() {
	t.mu.Lock()
	t.lastEvent = time.Time{}
	t.running = 0
	t.pending = 0
	t.mu.Unlock()
}

var (
	defaultTiming     *Timing
	defaultTimingOnce sync.Once
)

// DefaultTiming returns the process-wide Timing used by nodes that neither
// carry their own Timing nor have an ancestor providing one. It is created
// on first use and shared for the life of the process.
func DefaultTiming() *Timing {
	defaultTimingOnce.Do(func() {
		defaultTiming = NewTiming()
	})
	return defaultTiming
}
