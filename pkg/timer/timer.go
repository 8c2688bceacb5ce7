package timer

import (
	"sync/atomic"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Handle controls one scheduled callback.
type Handle interface {
	// Cancel stops the timer. It returns true if the callback was prevented
	// from running, false if it had already started or was already canceled.
	Cancel() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	// Schedule arranges for fn to run once after d. A non-positive d fires
	// as soon as possible. fn runs on a goroutine owned by the scheduler.
	Schedule(d time.Duration, fn func()) Handle
}

// Handle states.
const (
	statePending uint32 = iota
	stateFired
	stateCanceled
)

// once arbitrates between the fire and cancel paths of a single timer.
type once struct {
	state atomic.Uint32
}

// tryFire moves pending to fired. Only the winner may run the callback.
func (o *once) tryFire() bool {
	return o.state.CompareAndSwap(statePending, stateFired)
}

// tryCancel moves pending to canceled.
func (o *once) tryCancel() bool {
	return o.state.CompareAndSwap(statePending, stateCanceled)
}

// System is the real-time Clock and Scheduler.
type System struct{}

// Now returns time.Now(), which carries a monotonic reading.
func (System) Now() time.Time {
	return time.Now()
}

// Schedule starts a time.AfterFunc timer.
func (System) Schedule(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	h := &systemHandle{fn: fn}
	h.t = time.AfterFunc(d, h.fire)
	return h
}

type systemHandle struct {
	once
	t  *time.Timer
	fn func()
}

func (h *systemHandle) fire() {
	if h.tryFire() {
		h.fn()
	}
}

func (h *systemHandle) Cancel() bool {
	if !h.tryCancel() {
		return false
	}
	h.t.Stop()
	return true
}

// Compile-time interface satisfaction checks.
var (
	_ Clock     = System{}
	_ Scheduler = System{}
)
