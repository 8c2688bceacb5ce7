// Package timer provides the cancellable single-shot timers used for
// deferred button releases.
//
// # Fire-once Guarantee
//
// A Handle's callback runs at most once. Cancel and fire race on a single
// atomic state word: exactly one of them wins. When Cancel returns true the
// callback body never runs; when it returns false the callback has already
// started (or finished) and Cancel had no effect.
//
// # Slots
//
// Slot holds at most one outstanding timer for its owner. Arming a slot
// cancels the previous timer first, so a stale release can never fire after
// a newer hold sequence. Slots are not safe for concurrent use; the owner
// serializes access with its own lock, and the callback receives a sequence
// number so the owner can recognise (and ignore) a firing that lost the race
// against a newer Arm or Cancel.
//
// # Clocks
//
// System uses the Go runtime's monotonic clock and time.AfterFunc.
// FakeClock is a manually advanced clock for tests: timers fire in deadline
// order only when Advance moves time past them.
package timer
