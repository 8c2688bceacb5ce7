package mapping

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/hold"
	"github.com/tempohold/tempohold-go/pkg/log"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

// Mapping errors.
var (
	ErrNoID = errors.New("mapping id is empty")
)

// Reason recorded for a mapping without a usable input.
const ReasonInputUnresolved = "input unresolved"

// Spec describes one mapping.
type Spec struct {
	ID          string
	Description string

	// Mode restricts the mapping to one router mode. Empty means all modes.
	Mode string

	Input  button.Ref
	Output button.Ref

	// Cancel is the optional cancel input.
	Cancel *button.Ref

	// Hold configures the engine. MappingID, Description, Input and Output
	// are filled in from the spec.
	Hold hold.Config

	// Disabled, when set, keeps the mapping from receiving events and says
	// why.
	Disabled string
}

// Deps are the collaborators shared by all mappings.
type Deps struct {
	Sink      button.OutputSink
	Query     button.InputQuery
	Scheduler timer.Scheduler
	Clock     timer.Clock

	// Logger is the optional logger for debug output.
	// If nil, no logging is performed.
	Logger *slog.Logger

	// TraceLogger receives engine trace events. Optional.
	TraceLogger log.Logger
}

// Mapping is one input bound to one engine.
type Mapping struct {
	spec   Spec
	engine *hold.Engine

	// held is set while a press delivered to the engine awaits its release.
	held atomic.Bool
}

// New builds a mapping. A mapping that cannot be built is returned
// disabled with the reason recorded; only an empty ID is an error.
func New(spec Spec, deps Deps) (*Mapping, error) {
	if spec.ID == "" {
		return nil, ErrNoID
	}

	m := &Mapping{spec: spec}
	if m.spec.Disabled == "" && !spec.Input.IsValid() {
		m.spec.Disabled = ReasonInputUnresolved
	}
	if m.spec.Disabled != "" {
		return m, nil
	}

	cfg := spec.Hold
	cfg.MappingID = spec.ID
	cfg.Description = spec.Description
	cfg.Input = spec.Input
	cfg.Output = spec.Output
	if cfg.Clock == nil {
		cfg.Clock = deps.Clock
	}
	if cfg.Logger == nil {
		cfg.Logger = deps.Logger
	}
	if cfg.TraceLogger == nil {
		cfg.TraceLogger = deps.TraceLogger
	}

	e, err := hold.New(cfg, deps.Sink, deps.Query, deps.Scheduler)
	if err != nil {
		m.spec.Disabled = err.Error()
		if deps.Logger != nil {
			deps.Logger.Warn("mapping disabled", "mapping", spec.ID, "error", err)
		}
		return m, nil
	}
	m.engine = e
	return m, nil
}

// ID returns the mapping ID.
func (m *Mapping) ID() string {
	return m.spec.ID
}

// Spec returns the mapping spec.
func (m *Mapping) Spec() Spec {
	return m.spec
}

// Enabled reports whether the mapping processes events.
func (m *Mapping) Enabled() bool {
	return m.engine != nil
}

// DisabledReason says why the mapping is disabled, or "".
func (m *Mapping) DisabledReason() string {
	return m.spec.Disabled
}

// Engine returns the engine, or nil for a disabled mapping.
func (m *Mapping) Engine() *hold.Engine {
	return m.engine
}

// Press delivers a press of the input.
func (m *Mapping) Press(now time.Time) {
	if m.engine == nil {
		return
	}
	m.held.Store(true)
	m.engine.OnPress(now)
}

// Release delivers a release of the input. It reports false when no press
// was delivered before.
func (m *Mapping) Release(now time.Time) (hold.Decision, bool) {
	if m.engine == nil || !m.held.Swap(false) {
		return hold.Decision{}, false
	}
	return m.engine.OnRelease(now), true
}

// Cancel delivers a press of the cancel input.
func (m *Mapping) Cancel(now time.Time) {
	if m.engine == nil {
		return
	}
	m.engine.OnCancel(now)
}

// Held reports whether the input is pressed as far as the engine knows.
func (m *Mapping) Held() bool {
	return m.held.Load()
}

// Close stops the engine.
func (m *Mapping) Close() {
	if m.engine != nil {
		m.engine.Close()
	}
}
