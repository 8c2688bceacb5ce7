package button

import (
	"fmt"
	"time"
)

// Event is a state change of a physical button delivered by the host.
// Time comes from a monotonic clock and never decreases for a given Ref.
type Event struct {
	Ref     Ref
	Pressed bool
	Time    time.Time
}

// String returns a short human-readable description.
func (e Event) String() string {
	state := "up"
	if e.Pressed {
		state = "down"
	}
	return fmt.Sprintf("%s %s", e.Ref, state)
}

// OutputSink sets virtual buttons. Implementations must be synchronous,
// fast and idempotent: setting the same state twice is harmless.
type OutputSink interface {
	Set(ref Ref, pressed bool)
}

// InputQuery reads the current state of a physical or virtual button.
// Implementations must be safe for concurrent use.
type InputQuery interface {
	IsPressed(source Source, ref Ref) bool
}

// OutputFunc adapts a function to OutputSink.
type OutputFunc func(ref Ref, pressed bool)

// Set calls f(ref, pressed).
func (f OutputFunc) Set(ref Ref, pressed bool) { f(ref, pressed) }

// Sinks fans a Set out to several sinks in order.
type Sinks []OutputSink

// Set calls Set on every sink.
func (s Sinks) Set(ref Ref, pressed bool) {
	for _, sink := range s {
		sink.Set(ref, pressed)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ OutputSink = OutputFunc(nil)
	_ OutputSink = Sinks(nil)
)
