package pixelwalker

import (
	"sync"
	"time"
)

// Bucket is a fixed-window token bucket. At most capacity actions run per
// interval; the rest wait and are released by a single timer when the
// window rolls over. It is safe for concurrent use, and an action may queue
// more work on the bucket that is running it.
type Bucket struct {
	mu        sync.Mutex
	capacity  int
	interval  time.Duration
	tokens    int
	lastReset time.Time
	items     []func()
	timer     *time.Timer
	timerGen  uint64
	draining  bool
	stopped   bool
}

// NewBucket returns a bucket releasing capacity actions per interval.
func NewBucket(capacity int, interval time.Duration) *Bucket {
	return &Bucket{
		capacity: capacity,
		interval: interval,
	}
}

// Queue adds action to the bucket and runs whatever the budget allows.
// Priority actions are pushed to the front of the waiting list.
func (b *Bucket) Queue(action func(), priority bool) {
	if action == nil {
		return
	}
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	if priority {
		b.items = append([]func(){action}, b.items...)
	} else {
		b.items = append(b.items, action)
	}
	b.mu.Unlock()

	b.drain(0)
}

// Configure changes capacity and interval and releases whatever the new
// budget allows.
func (b *Bucket) Configure(capacity int, interval time.Duration) {
	b.mu.Lock()
	b.capacity = capacity
	b.interval = interval
	b.stopTimer()
	b.mu.Unlock()

	b.drain(0)
}

// SetInterval changes the window length, keeping the capacity.
func (b *Bucket) SetInterval(interval time.Duration) {
	b.mu.Lock()
	capacity := b.capacity
	b.mu.Unlock()
	b.Configure(capacity, interval)
}

// Interval returns the current window length.
func (b *Bucket) Interval() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.interval
}

// Pending returns the number of waiting actions.
func (b *Bucket) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Stop cancels the timer and drops every waiting action. Later calls to
// Queue are ignored.
func (b *Bucket) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	b.items = nil
	b.stopTimer()
}

// drain releases actions while tokens remain. Only one goroutine drains at a
// time; actions run outside the lock in release order. gen is the generation
// of the timer that fired, or 0 for direct calls.
func (b *Bucket) drain(gen uint64) {
	b.mu.Lock()
	if gen != 0 {
		if gen != b.timerGen {
			b.mu.Unlock()
			return
		}
		b.timer = nil
	}
	if b.draining || b.stopped || b.timer != nil || len(b.items) == 0 {
		b.mu.Unlock()
		return
	}
	b.draining = true
	defer func() {
		b.draining = false
		b.schedule()
		b.mu.Unlock()
	}()

	for len(b.items) > 0 && !b.stopped {
		if b.interval <= 0 {
			return
		}
		now := time.Now()
		if now.Sub(b.lastReset) >= b.interval {
			b.lastReset = now
			b.tokens = 0
		}
		if b.tokens >= b.capacity {
			return
		}
		b.tokens++
		action := b.items[0]
		b.items[0] = nil
		b.items = b.items[1:]

		b.run(action)
	}
}

// run executes action with the lock released. The lock is reacquired even
// if action panics so the deferred cleanup in drain stays balanced.
func (b *Bucket) run(action func()) {
	b.mu.Unlock()
	defer b.mu.Lock()
	action()
}

// schedule arms the single timer when actions are left over. Must be called
// with mu held.
func (b *Bucket) schedule() {
	if b.stopped || b.timer != nil || len(b.items) == 0 || b.interval <= 0 {
		return
	}
	wait := time.Millisecond
	if b.capacity <= 0 || b.tokens >= b.capacity {
		wait = time.Until(b.lastReset.Add(b.interval))
		if wait < 0 {
			wait = 0
		}
	}
	b.timerGen++
	gen := b.timerGen
	b.timer = time.AfterFunc(wait, func() { b.drain(gen) })
}

func (b *Bucket) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
		b.timerGen++
	}
}
