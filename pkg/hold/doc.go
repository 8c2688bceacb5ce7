// Package hold implements the tempo-hold engine.
//
// An Engine turns the press and release of one physical button into the
// state of one virtual button. A press always drives the output pressed.
// On release the engine decides whether the press was short or long:
//
//   - If the button was held for less than a profile's tempo delay, the
//     output is released at once.
//   - If the tempo delay was reached, the output stays pressed until
//     press time + hold duration, then a deferred release fires.
//   - If that moment has already passed, the output is released at once.
//
// Up to two profiles are configured. Profile 2 is evaluated before
// profile 1 and the first match wins, so the profile with the longer tempo
// delay belongs in slot 2. A profile may be gated by a guard button, read
// fresh at release time.
//
// A separate cancel input clears the recorded press so the next release
// falls through to an immediate release. In alternating mode a press that
// arrives while a deferred release is pending cancels that release and
// becomes a plain press/release pair.
//
// # Concurrency
//
// All state is guarded by one mutex per engine. The deferred release runs
// on the scheduler's goroutine and re-acquires the mutex before touching
// state; a firing that lost the race against a newer press or release is
// recognised by its sequence number and ignored. Output changes are applied
// while the mutex is held so they are never reordered.
//
// Trace events are emitted after the mutex is released.
package hold
