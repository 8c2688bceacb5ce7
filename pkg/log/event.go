package log

import (
	"time"
)

// Event represents a trace event captured from a hold engine.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// MappingID is the configured mapping identifier.
	MappingID string `cbor:"2,keyasint"`

	// InstanceID uniquely identifies the engine instance (UUID).
	InstanceID string `cbor:"3,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"4,keyasint"`

	// Description is the human-readable mapping or profile description.
	Description string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Input      *InputEvent      `cbor:"10,keyasint,omitempty"`
	Decision   *DecisionEvent   `cbor:"11,keyasint,omitempty"`
	Timer      *TimerEvent      `cbor:"12,keyasint,omitempty"`
	Output     *OutputEvent     `cbor:"13,keyasint,omitempty"`
	Diagnostic *DiagnosticEvent `cbor:"14,keyasint,omitempty"`
}

// Kind classifies a trace event.
type Kind uint8

const (
	// KindInput is an input delivered to an engine.
	KindInput Kind = 0
	// KindDecision is the resolution of a release.
	KindDecision Kind = 1
	// KindTimer is a deferred release timer transition.
	KindTimer Kind = 2
	// KindOutput is a change applied to the virtual button.
	KindOutput Kind = 3
	// KindDiagnostic is a construction-time configuration defect.
	KindDiagnostic Kind = 4
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "INPUT"
	case KindDecision:
		return "DECISION"
	case KindTimer:
		return "TIMER"
	case KindOutput:
		return "OUTPUT"
	case KindDiagnostic:
		return "DIAGNOSTIC"
	default:
		return "UNKNOWN"
	}
}

// InputAction is the kind of input delivered to an engine.
type InputAction uint8

const (
	// InputPress is a physical press of the mapped button.
	InputPress InputAction = 0
	// InputRelease is a physical release of the mapped button.
	InputRelease InputAction = 1
	// InputCancel is a press of the cancel button.
	InputCancel InputAction = 2
)

// String returns the action name.
func (a InputAction) String() string {
	switch a {
	case InputPress:
		return "PRESS"
	case InputRelease:
		return "RELEASE"
	case InputCancel:
		return "CANCEL"
	default:
		return "UNKNOWN"
	}
}

// InputEvent captures an input delivered to an engine.
type InputEvent struct {
	// Action is press, release or cancel.
	Action InputAction `cbor:"1,keyasint"`

	// Button is the physical button in "device:index" form.
	Button string `cbor:"2,keyasint,omitempty"`

	// HeldFor is the time since the recorded press (release only).
	// Stored as nanoseconds.
	HeldFor *time.Duration `cbor:"3,keyasint,omitempty"`

	// Ignored is set when the input had no effect (e.g. press in
	// alternating mode that only canceled a hold).
	Ignored bool `cbor:"4,keyasint,omitempty"`
}

// DecisionEvent captures how a release was resolved.
type DecisionEvent struct {
	// Outcome is the engine outcome name (e.g. "HOLD_SCHEDULED").
	Outcome string `cbor:"1,keyasint"`

	// Profile is the profile that matched (1 or 2), 0 if none.
	Profile uint8 `cbor:"2,keyasint,omitempty"`

	// Remaining is the computed hold time left (may be negative).
	// Stored as nanoseconds.
	Remaining *time.Duration `cbor:"3,keyasint,omitempty"`

	// Reason explains why no profile matched.
	Reason string `cbor:"4,keyasint,omitempty"`
}

// TimerAction is a deferred release timer transition.
type TimerAction uint8

const (
	// TimerScheduled indicates a new timer was armed.
	TimerScheduled TimerAction = 0
	// TimerCanceled indicates a pending timer was canceled.
	TimerCanceled TimerAction = 1
	// TimerFired indicates the timer fired and released the output.
	TimerFired TimerAction = 2
	// TimerStale indicates a firing that lost the race and was ignored.
	TimerStale TimerAction = 3
)

// String returns the timer action name.
func (a TimerAction) String() string {
	switch a {
	case TimerScheduled:
		return "SCHEDULED"
	case TimerCanceled:
		return "CANCELED"
	case TimerFired:
		return "FIRED"
	case TimerStale:
		return "STALE"
	default:
		return "UNKNOWN"
	}
}

// TimerEvent captures a deferred release timer transition.
type TimerEvent struct {
	// Action is the transition.
	Action TimerAction `cbor:"1,keyasint"`

	// Seq is the engine-local timer sequence number.
	Seq uint64 `cbor:"2,keyasint"`

	// Delay is the scheduled delay (scheduled only). Stored as nanoseconds.
	Delay *time.Duration `cbor:"3,keyasint,omitempty"`
}

// OutputEvent captures a change applied to the virtual button.
type OutputEvent struct {
	// Button is the virtual button in "device:index" form.
	Button string `cbor:"1,keyasint"`

	// Pressed is the new state.
	Pressed bool `cbor:"2,keyasint"`
}

// DiagnosticEvent captures a configuration defect.
type DiagnosticEvent struct {
	// Severity is "WARNING" or "ERROR".
	Severity string `cbor:"1,keyasint"`

	// Field is the configuration field at fault.
	Field string `cbor:"2,keyasint,omitempty"`

	// Message describes the defect and the fallback applied.
	Message string `cbor:"3,keyasint"`
}
