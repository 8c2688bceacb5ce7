package hold

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/log"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

// Engine errors.
var (
	ErrNoOutput     = errors.New("no output configured")
	ErrNoScheduler  = errors.New("no scheduler configured")
	ErrNoInputQuery = errors.New("guard configured without input query")
)

// Config configures an Engine.
type Config struct {
	// MappingID names the mapping in log lines and traces.
	MappingID string

	// Description is the human-readable mapping description.
	Description string

	// Input is the physical button feeding the engine. Used for traces only.
	Input button.Ref

	// Output is the virtual button driven by the engine.
	Output button.Ref

	// Profile1 and Profile2 are the hold profiles. Profile2 is evaluated
	// first.
	Profile1 Profile
	Profile2 Profile

	// Alternating makes a press that arrives while a deferred release is
	// pending cancel it without starting a new timed sequence.
	Alternating bool

	// Debug enables verbose debug lines on Logger.
	Debug bool

	// Clock supplies timestamps for deferred releases. Defaults to the
	// system clock.
	Clock timer.Clock

	// Logger is the optional logger for debug output.
	// If nil, no logging is performed.
	Logger *slog.Logger

	// TraceLogger receives structured trace events. If nil, tracing is
	// disabled.
	TraceLogger log.Logger
}

// slotProfile pairs a profile with its slot number.
type slotProfile struct {
	id int
	*Profile
}

// Engine is the tempo-hold state machine for one mapping.
type Engine struct {
	mu sync.Mutex

	cfg        Config
	order      [2]slotProfile
	anyEnabled bool
	instanceID string

	sink  button.OutputSink
	query button.InputQuery
	clock timer.Clock
	slot  *timer.Slot
	trace log.Logger

	pressActive bool
	pressStart  time.Time
	output      bool
	closed      bool
}

// New creates an engine. sink and sched are mandatory; query is needed
// only when a profile has a guard.
func New(cfg Config, sink button.OutputSink, query button.InputQuery, sched timer.Scheduler) (*Engine, error) {
	if sink == nil || !cfg.Output.IsValid() {
		return nil, ErrNoOutput
	}
	if sched == nil {
		return nil, ErrNoScheduler
	}
	for i, p := range []Profile{cfg.Profile1, cfg.Profile2} {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i+1, err)
		}
		if p.Enabled && p.Guard != nil && query == nil {
			return nil, fmt.Errorf("profile %d: %w", i+1, ErrNoInputQuery)
		}
	}

	e := &Engine{
		cfg:        cfg,
		instanceID: uuid.NewString(),
		sink:       sink,
		query:      query,
		clock:      cfg.Clock,
		slot:       timer.NewSlot(sched),
		trace:      cfg.TraceLogger,
	}
	if e.clock == nil {
		e.clock = timer.System{}
	}
	e.order = [2]slotProfile{
		{id: 2, Profile: &e.cfg.Profile2},
		{id: 1, Profile: &e.cfg.Profile1},
	}
	e.anyEnabled = cfg.Profile1.Enabled || cfg.Profile2.Enabled

	return e, nil
}

// InstanceID returns the unique ID of this engine instance.
func (e *Engine) InstanceID() string {
	return e.instanceID
}

// MappingID returns the configured mapping ID.
func (e *Engine) MappingID() string {
	return e.cfg.MappingID
}

// OnPress handles a physical press at now.
func (e *Engine) OnPress(now time.Time) {
	var buf []log.Event

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	interrupt := e.cfg.Alternating && e.anyEnabled && e.slot.Active()
	buf = e.record(buf, now, log.Event{
		Kind:  log.KindInput,
		Input: &log.InputEvent{Action: log.InputPress, Button: e.cfg.Input.String(), Ignored: interrupt},
	})

	buf = e.setOutputLocked(buf, now, true)

	if e.anyEnabled {
		buf = e.cancelTimerLocked(buf, now)
		if interrupt {
			e.pressActive = false
			e.debugLog("press interrupted pending hold")
		} else {
			e.pressActive = true
			e.pressStart = now
			e.debugLog("press recorded")
		}
	}
	e.mu.Unlock()

	e.emit(buf)
}

// OnRelease handles a physical release at now and reports the decision.
func (e *Engine) OnRelease(now time.Time) Decision {
	var buf []log.Event

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Decision{Outcome: ReleasedImmediately, Reason: ReasonClosed}
	}

	in := &log.InputEvent{Action: log.InputRelease, Button: e.cfg.Input.String()}
	if e.pressActive {
		held := now.Sub(e.pressStart)
		in.HeldFor = &held
	}
	buf = e.record(buf, now, log.Event{Kind: log.KindInput, Input: in})

	d := e.decideLocked(now)
	e.pressActive = false

	buf = e.record(buf, now, decisionEvent(d))

	if d.Outcome == HoldScheduled {
		buf = e.cancelTimerLocked(buf, now)
		seq := e.slot.Arm(now, d.Remaining, e.fire)
		delay := d.Remaining
		buf = e.record(buf, now, log.Event{
			Kind:  log.KindTimer,
			Timer: &log.TimerEvent{Action: log.TimerScheduled, Seq: seq, Delay: &delay},
		})
		e.debugLog("hold scheduled", "profile", d.Profile, "remaining", d.Remaining)
	} else {
		buf = e.setOutputLocked(buf, now, false)
		e.debugLog("released", "outcome", d.Outcome.String(), "reason", d.Reason)
	}
	e.mu.Unlock()

	e.emit(buf)
	return d
}

// OnCancel clears the recorded press so the next release falls through.
// It does not touch the output or a pending deferred release.
func (e *Engine) OnCancel(now time.Time) {
	var buf []log.Event

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	buf = e.record(buf, now, log.Event{
		Kind:  log.KindInput,
		Input: &log.InputEvent{Action: log.InputCancel, Ignored: !e.pressActive},
	})
	if e.pressActive {
		e.debugLog("press canceled")
	}
	e.pressActive = false
	e.mu.Unlock()

	e.emit(buf)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		PressActive:   e.pressActive,
		TimerActive:   e.slot.Active(),
		TimerDeadline: e.slot.Deadline(),
		TimerSeq:      e.slot.Seq(),
		Output:        e.output,
	}
	if e.pressActive {
		s.PressStart = e.pressStart
	}
	return s
}

// Close cancels a pending deferred release and releases the output.
// Inputs received after Close are ignored.
func (e *Engine) Close() {
	var buf []log.Event
	now := e.clock.Now()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.pressActive = false
	buf = e.cancelTimerLocked(buf, now)
	if e.output {
		buf = e.setOutputLocked(buf, now, false)
	}
	e.mu.Unlock()

	e.emit(buf)
}

// decideLocked evaluates profile 2 then profile 1.
func (e *Engine) decideLocked(now time.Time) Decision {
	if !e.anyEnabled {
		return Decision{Outcome: ReleasedImmediately, Reason: ReasonNoProfile}
	}
	if !e.pressActive {
		return Decision{Outcome: ReleasedImmediately, Reason: ReasonInactive}
	}

	var reasons []string
	for _, p := range e.order {
		if !p.Enabled {
			continue
		}
		if now.Before(e.pressStart.Add(p.TempoDelay)) {
			reasons = append(reasons, fmt.Sprintf("profile %d: %s", p.id, ReasonTempo))
			continue
		}
		if !evaluateGuard(e.query, p.Profile) {
			reasons = append(reasons, fmt.Sprintf("profile %d: %s", p.id, ReasonGuard))
			continue
		}

		remaining := e.pressStart.Add(p.Hold).Sub(now)
		if remaining < 0 {
			return Decision{Outcome: HoldElapsed, Profile: p.id, Remaining: remaining}
		}
		return Decision{Outcome: HoldScheduled, Profile: p.id, Remaining: remaining}
	}

	return Decision{Outcome: ReleasedImmediately, Reason: strings.Join(reasons, "; ")}
}

// fire is the deferred release callback. It runs on the scheduler's
// goroutine.
func (e *Engine) fire(seq uint64) {
	var buf []log.Event
	now := e.clock.Now()

	e.mu.Lock()
	if !e.slot.Release(seq) {
		buf = e.record(buf, now, log.Event{
			Kind:  log.KindTimer,
			Timer: &log.TimerEvent{Action: log.TimerStale, Seq: seq},
		})
		e.mu.Unlock()
		e.emit(buf)
		return
	}

	buf = e.record(buf, now, log.Event{
		Kind:  log.KindTimer,
		Timer: &log.TimerEvent{Action: log.TimerFired, Seq: seq},
	})
	buf = e.setOutputLocked(buf, now, false)
	e.debugLog("hold elapsed", "seq", seq)
	e.mu.Unlock()

	e.emit(buf)
}

// cancelTimerLocked cancels the pending deferred release, if any.
func (e *Engine) cancelTimerLocked(buf []log.Event, now time.Time) []log.Event {
	if !e.slot.Active() {
		return buf
	}
	seq := e.slot.Seq()
	e.slot.Cancel()
	return e.record(buf, now, log.Event{
		Kind:  log.KindTimer,
		Timer: &log.TimerEvent{Action: log.TimerCanceled, Seq: seq},
	})
}

// setOutputLocked drives the output. The sink is always called; a trace
// event is recorded only on a change.
func (e *Engine) setOutputLocked(buf []log.Event, now time.Time, pressed bool) []log.Event {
	e.sink.Set(e.cfg.Output, pressed)
	if e.output == pressed {
		return buf
	}
	e.output = pressed
	return e.record(buf, now, log.Event{
		Kind:   log.KindOutput,
		Output: &log.OutputEvent{Button: e.cfg.Output.String(), Pressed: pressed},
	})
}

// record appends a trace event, filling in the common fields.
func (e *Engine) record(buf []log.Event, now time.Time, ev log.Event) []log.Event {
	if e.trace == nil {
		return buf
	}
	ev.Timestamp = now
	ev.MappingID = e.cfg.MappingID
	ev.InstanceID = e.instanceID
	ev.Description = e.cfg.Description
	return append(buf, ev)
}

// emit hands buffered trace events to the trace logger.
func (e *Engine) emit(buf []log.Event) {
	for _, ev := range buf {
		e.trace.Log(ev)
	}
}

func decisionEvent(d Decision) log.Event {
	de := &log.DecisionEvent{
		Outcome: d.Outcome.String(),
		Profile: uint8(d.Profile),
		Reason:  d.Reason,
	}
	if d.Outcome != ReleasedImmediately {
		remaining := d.Remaining
		de.Remaining = &remaining
	}
	return log.Event{Kind: log.KindDecision, Decision: de}
}

// debugLog logs a debug message if a logger is configured and debug output
// is enabled for this mapping.
func (e *Engine) debugLog(msg string, args ...any) {
	if e.cfg.Logger != nil && e.cfg.Debug {
		e.cfg.Logger.Debug(msg, append([]any{"mapping", e.cfg.MappingID}, args...)...)
	}
}
