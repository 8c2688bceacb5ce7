package mapping

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/hold"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

// Router errors.
var (
	ErrDuplicateID = errors.New("duplicate mapping id")
	ErrClosed      = errors.New("router closed")
)

// RouterConfig configures a Router.
type RouterConfig struct {
	// Mode is the initial mode.
	Mode string

	// Clock stamps events that arrive without a time. Defaults to the
	// system clock.
	Clock timer.Clock

	// Logger is the optional logger for debug output.
	// If nil, no logging is performed.
	Logger *slog.Logger
}

// Router dispatches button events to mappings.
// It is safe for concurrent use.
type Router struct {
	mu       sync.RWMutex
	mappings []*Mapping
	byID     map[string]*Mapping
	byInput  map[button.Ref][]*Mapping
	byCancel map[button.Ref][]*Mapping
	mode     string
	closed   bool

	clock  timer.Clock
	logger *slog.Logger

	onDecision func(m *Mapping, d hold.Decision)
}

// NewRouter creates an empty router.
func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		byID:     make(map[string]*Mapping),
		byInput:  make(map[button.Ref][]*Mapping),
		byCancel: make(map[button.Ref][]*Mapping),
		mode:     cfg.Mode,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
	}
	if r.clock == nil {
		r.clock = timer.System{}
	}
	return r
}

// Add registers a mapping. Disabled mappings are listed but never receive
// events.
func (r *Router) Add(m *Mapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if _, exists := r.byID[m.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, m.ID())
	}

	r.mappings = append(r.mappings, m)
	r.byID[m.ID()] = m
	if !m.Enabled() {
		r.debugLog("mapping registered disabled", "mapping", m.ID(), "reason", m.DisabledReason())
		return nil
	}

	spec := m.Spec()
	r.byInput[spec.Input] = append(r.byInput[spec.Input], m)
	if spec.Cancel != nil && spec.Cancel.IsValid() {
		r.byCancel[*spec.Cancel] = append(r.byCancel[*spec.Cancel], m)
	}
	return nil
}

// OnDecision registers a callback invoked after every release decision.
func (r *Router) OnDecision(fn func(m *Mapping, d hold.Decision)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDecision = fn
}

// Dispatch routes a physical button event. It returns the number of
// mappings that received it.
func (r *Router) Dispatch(ev button.Event) int {
	now := ev.Time
	if now.IsZero() {
		now = r.clock.Now()
	}

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return 0
	}
	mode := r.mode
	inputs := r.byInput[ev.Ref]
	var cancels []*Mapping
	if ev.Pressed {
		cancels = r.byCancel[ev.Ref]
	}
	onDecision := r.onDecision
	r.mu.RUnlock()

	delivered := 0
	for _, m := range cancels {
		if !inMode(m, mode) {
			continue
		}
		m.Cancel(now)
		delivered++
	}

	for _, m := range inputs {
		if ev.Pressed {
			if !inMode(m, mode) {
				continue
			}
			m.Press(now)
			delivered++
			continue
		}

		d, ok := m.Release(now)
		if !ok {
			continue
		}
		delivered++
		if onDecision != nil {
			onDecision(m, d)
		}
	}

	return delivered
}

func inMode(m *Mapping, mode string) bool {
	s := m.Spec().Mode
	return s == "" || s == mode
}

// SetMode switches the current mode. Running holds are not disturbed.
func (r *Router) SetMode(mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode != mode {
		r.debugLog("mode changed", "from", r.mode, "to", mode)
	}
	r.mode = mode
}

// Mode returns the current mode.
func (r *Router) Mode() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// Modes returns the distinct non-empty modes used by registered mappings.
func (r *Router) Modes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var modes []string
	for _, m := range r.mappings {
		if mode := m.Spec().Mode; mode != "" && !seen[mode] {
			seen[mode] = true
			modes = append(modes, mode)
		}
	}
	return modes
}

// Mappings returns all registered mappings in registration order.
func (r *Router) Mappings() []*Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Mapping, len(r.mappings))
	copy(out, r.mappings)
	return out
}

// Get returns a mapping by ID.
func (r *Router) Get(id string) (*Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	return m, ok
}

// Close stops every mapping. Events dispatched afterwards are dropped.
func (r *Router) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	mappings := r.mappings
	r.mu.Unlock()

	for _, m := range mappings {
		m.Close()
	}
}

func (r *Router) debugLog(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
