package hold

import "time"

// Outcome is how a release was resolved.
type Outcome uint8

const (
	// ReleasedImmediately means no profile matched and the output was
	// released at the physical release.
	ReleasedImmediately Outcome = iota

	// HoldScheduled means a profile matched and a deferred release is
	// pending.
	HoldScheduled

	// HoldElapsed means a profile matched but its hold window had already
	// passed, so the output was released at once.
	HoldElapsed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case ReleasedImmediately:
		return "RELEASED"
	case HoldScheduled:
		return "HOLD_SCHEDULED"
	case HoldElapsed:
		return "HOLD_ELAPSED"
	default:
		return "UNKNOWN"
	}
}

// Fall-through reasons reported in Decision.Reason.
const (
	ReasonClosed    = "engine closed"
	ReasonNoProfile = "no profile enabled"
	ReasonInactive  = "press not active"
	ReasonTempo     = "tempo not reached"
	ReasonGuard     = "guard not pressed"
)

// Decision describes what OnRelease did.
type Decision struct {
	Outcome Outcome

	// Profile is the matching profile (1 or 2), or 0.
	Profile int

	// Remaining is press start + hold - release time for the matching
	// profile. It may be negative (HoldElapsed).
	Remaining time.Duration

	// Reason explains a ReleasedImmediately outcome.
	Reason string
}

// Snapshot is a point-in-time copy of the engine state.
type Snapshot struct {
	PressActive   bool
	PressStart    time.Time
	TimerActive   bool
	TimerDeadline time.Time
	TimerSeq      uint64
	Output        bool
}
