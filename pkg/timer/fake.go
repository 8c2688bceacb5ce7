package timer

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a Clock and Scheduler whose time only moves when Advance or
// Set is called. It is safe for concurrent use.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeHandle
}

// NewFakeClock creates a fake clock starting at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Schedule registers fn to fire when the clock reaches now+d.
func (c *FakeClock) Schedule(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	h := &fakeHandle{
		clock:    c,
		id:       c.seq,
		deadline: c.now.Add(d),
		fn:       fn,
	}
	c.timers = append(c.timers, h)
	return h
}

// Advance moves the clock forward by d, firing every due timer in deadline
// order. While a timer fires, Now reports its deadline. Callbacks run on the
// caller's goroutine without the clock lock held, so they may schedule or
// cancel other timers.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	c.runUntil(target)
}

// Set moves the clock to t (never backwards) and fires due timers.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	if t.Before(c.now) {
		t = c.now
	}
	c.mu.Unlock()
	c.runUntil(t)
}

// Pending returns the number of timers that have neither fired nor been
// canceled.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// NextDeadline returns the earliest pending deadline.
func (c *FakeClock) NextDeadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return time.Time{}, false
	}
	c.sortLocked()
	return c.timers[0].deadline, true
}

func (c *FakeClock) runUntil(target time.Time) {
	for {
		c.mu.Lock()
		c.sortLocked()
		if len(c.timers) == 0 || c.timers[0].deadline.After(target) {
			c.now = target
			c.mu.Unlock()
			return
		}

		h := c.timers[0]
		c.timers = c.timers[1:]
		if h.deadline.After(c.now) {
			c.now = h.deadline
		}
		c.mu.Unlock()

		if h.tryFire() {
			h.fn()
		}
	}
}

func (c *FakeClock) sortLocked() {
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].deadline.Equal(c.timers[j].deadline) {
			return c.timers[i].id < c.timers[j].id
		}
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})
}

func (c *FakeClock) remove(h *fakeHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.timers {
		if t == h {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

type fakeHandle struct {
	once
	clock    *FakeClock
	id       uint64
	deadline time.Time
	fn       func()
}

func (h *fakeHandle) Cancel() bool {
	if !h.tryCancel() {
		return false
	}
	h.clock.remove(h)
	return true
}

// Compile-time interface satisfaction checks.
var (
	_ Clock     = (*FakeClock)(nil)
	_ Scheduler = (*FakeClock)(nil)
)
