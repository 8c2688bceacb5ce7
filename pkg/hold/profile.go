package hold

import (
	"errors"
	"fmt"
	"time"

	"github.com/tempohold/tempohold-go/pkg/button"
)

// Profile errors.
var (
	ErrInvalidProfile = errors.New("invalid hold profile")
)

// Profile is one tempo/hold/guard triple.
type Profile struct {
	// Enabled turns the profile on.
	Enabled bool

	// Description is shown in log lines and traces only.
	Description string

	// TempoDelay is the minimum time the physical button must be held for
	// the profile to activate.
	TempoDelay time.Duration

	// Hold is the time, measured from the press, for which the output stays
	// pressed once the profile activated.
	Hold time.Duration

	// Guard optionally gates the profile on another button being pressed.
	// Nil means the profile is not gated.
	Guard *button.GuardRef
}

// Validate checks the durations.
func (p Profile) Validate() error {
	if p.TempoDelay < 0 {
		return fmt.Errorf("%w: negative tempo delay %v", ErrInvalidProfile, p.TempoDelay)
	}
	if p.Hold < 0 {
		return fmt.Errorf("%w: negative hold %v", ErrInvalidProfile, p.Hold)
	}
	if p.Guard != nil && !p.Guard.Button.IsValid() {
		return fmt.Errorf("%w: guard %s", ErrInvalidProfile, p.Guard)
	}
	return nil
}

// evaluateGuard reports whether the guard of p is satisfied. An unset guard
// always passes. The state is read on every call.
func evaluateGuard(query button.InputQuery, p *Profile) bool {
	if p.Guard == nil {
		return true
	}
	return query.IsPressed(p.Guard.Source, p.Guard.Button)
}
