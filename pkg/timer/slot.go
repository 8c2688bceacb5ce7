package timer

import "time"

// Slot holds at most one outstanding timer. It is not safe for concurrent
// use: the owner must serialize all calls, including the check performed in
// the callback.
type Slot struct {
	sched    Scheduler
	handle   Handle
	seq      uint64
	deadline time.Time
}

// NewSlot creates an empty slot backed by sched.
func NewSlot(sched Scheduler) *Slot {
	return &Slot{sched: sched}
}

// Arm cancels any outstanding timer and schedules fn after d. The callback
// receives the sequence number returned here; the owner passes it to Owns
// (under its lock) to tell a current firing from a stale one.
// now is used only to record the deadline.
func (s *Slot) Arm(now time.Time, d time.Duration, fn func(seq uint64)) uint64 {
	s.Cancel()

	s.seq++
	seq := s.seq
	s.deadline = now.Add(d)
	s.handle = s.sched.Schedule(d, func() { fn(seq) })
	return seq
}

// Cancel stops the outstanding timer, if any. It returns true if a pending
// callback was prevented from running.
func (s *Slot) Cancel() bool {
	if s.handle == nil {
		return false
	}
	stopped := s.handle.Cancel()
	s.handle = nil
	s.deadline = time.Time{}
	return stopped
}

// Owns reports whether seq identifies the outstanding timer.
func (s *Slot) Owns(seq uint64) bool {
	return s.handle != nil && s.seq == seq
}

// Release forgets the outstanding timer after it fired. It returns false
// (and does nothing) if seq is stale.
func (s *Slot) Release(seq uint64) bool {
	if !s.Owns(seq) {
		return false
	}
	s.handle = nil
	s.deadline = time.Time{}
	return true
}

// Active reports whether a timer is outstanding.
func (s *Slot) Active() bool {
	return s.handle != nil
}

// Deadline returns when the outstanding timer is due, or the zero time.
func (s *Slot) Deadline() time.Time {
	return s.deadline
}

// Seq returns the sequence number of the most recent Arm.
func (s *Slot) Seq() uint64 {
	return s.seq
}
