package host

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/tempohold/tempohold-go/pkg/button"
)

// Board errors.
var (
	ErrDeviceExists     = errors.New("device already exists")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrButtonOutOfRange = errors.New("button index out of range")
	ErrInvalidButtons   = errors.New("invalid button count")
	ErrInvalidDevice    = errors.New("invalid device id")
)

// MaxButtons is the largest button count a device may declare.
const MaxButtons = 128

// Device describes one declared device.
type Device struct {
	ID      string
	Source  button.Source
	Buttons int
}

// Change is a button state change. Time is the instant the input device
// observed it, or zero when the change carries no timestamp.
type Change struct {
	Source  button.Source
	Ref     button.Ref
	Pressed bool
	Time    time.Time
}

// Config configures a Board.
type Config struct {
	// Logger is the optional logger for debug output.
	// If nil, no logging is performed.
	Logger *slog.Logger
}

type deviceState struct {
	Device
	pressed []bool
}

// Board holds the state of every declared button.
// It is safe for concurrent use.
type Board struct {
	mu      sync.RWMutex
	devices map[button.Source]map[string]*deviceState

	logger *slog.Logger

	subMu    sync.RWMutex
	onChange []func(Change)
}

// NewBoard creates an empty board.
func NewBoard(cfg Config) *Board {
	return &Board{
		devices: map[button.Source]map[string]*deviceState{
			button.SourcePhysical: {},
			button.SourceVirtual:  {},
		},
		logger: cfg.Logger,
	}
}

// AddDevice declares a device with the given number of buttons.
func (b *Board) AddDevice(source button.Source, id string, buttons int) error {
	if id == "" {
		return ErrInvalidDevice
	}
	if buttons <= 0 || buttons > MaxButtons {
		return fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidButtons, buttons, MaxButtons)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	devs, ok := b.devices[source]
	if !ok {
		return fmt.Errorf("%w: %v", button.ErrInvalidSource, source)
	}
	if _, exists := devs[id]; exists {
		return fmt.Errorf("%w: %s %s", ErrDeviceExists, source, id)
	}
	devs[id] = &deviceState{
		Device:  Device{ID: id, Source: source, Buttons: buttons},
		pressed: make([]bool, buttons),
	}
	return nil
}

// Devices returns the declared devices of a source, sorted by ID.
func (b *Board) Devices(source button.Source) []Device {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Device, 0, len(b.devices[source]))
	for _, d := range b.devices[source] {
		out = append(out, d.Device)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resolve checks that ref names a declared button of the given source.
func (b *Board) Resolve(source button.Source, ref button.Ref) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, err := b.lookupLocked(source, ref)
	return err
}

func (b *Board) lookupLocked(source button.Source, ref button.Ref) (*deviceState, error) {
	if !ref.IsValid() {
		return nil, fmt.Errorf("%w: %s", button.ErrInvalidRef, ref)
	}
	d, ok := b.devices[source][ref.Device]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrDeviceNotFound, source, ref.Device)
	}
	if ref.Index > d.Buttons {
		return nil, fmt.Errorf("%w: %s has %d buttons", ErrButtonOutOfRange, ref, d.Buttons)
	}
	return d, nil
}

// Set drives a virtual button. Unknown buttons are ignored.
func (b *Board) Set(ref button.Ref, pressed bool) {
	if _, err := b.set(button.SourceVirtual, ref, pressed, time.Time{}); err != nil {
		b.debugLog("virtual set ignored", "button", ref.String(), "error", err)
	}
}

// SetPhysical updates a physical button without a timestamp; subscribers
// stamp the change themselves. It reports whether the state changed.
func (b *Board) SetPhysical(ref button.Ref, pressed bool) (bool, error) {
	return b.set(button.SourcePhysical, ref, pressed, time.Time{})
}

// Apply updates a physical button from a device event, keeping the time the
// device read it.
func (b *Board) Apply(ev button.Event) (bool, error) {
	return b.set(button.SourcePhysical, ev.Ref, ev.Pressed, ev.Time)
}

func (b *Board) set(source button.Source, ref button.Ref, pressed bool, at time.Time) (bool, error) {
	b.mu.Lock()
	d, err := b.lookupLocked(source, ref)
	if err != nil {
		b.mu.Unlock()
		return false, err
	}
	changed := d.pressed[ref.Index-1] != pressed
	d.pressed[ref.Index-1] = pressed
	b.mu.Unlock()

	if changed {
		b.notify(Change{Source: source, Ref: ref, Pressed: pressed, Time: at})
	}
	return changed, nil
}

// IsPressed reports the state of a button. Unknown buttons read as
// released.
func (b *Board) IsPressed(source button.Source, ref button.Ref) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	d, err := b.lookupLocked(source, ref)
	if err != nil {
		return false
	}
	return d.pressed[ref.Index-1]
}

// Pressed returns every pressed button of a source, sorted.
func (b *Board) Pressed(source button.Source) []button.Ref {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []button.Ref
	for id, d := range b.devices[source] {
		for i, p := range d.pressed {
			if p {
				out = append(out, button.Ref{Device: id, Index: i + 1})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Device != out[j].Device {
			return out[i].Device < out[j].Device
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// OnChange registers a callback invoked after every state change.
// Callbacks run on the goroutine that made the change, without board locks
// held.
func (b *Board) OnChange(fn func(Change)) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.onChange = append(b.onChange, fn)
}

func (b *Board) notify(c Change) {
	b.subMu.RLock()
	subs := b.onChange
	b.subMu.RUnlock()

	for _, fn := range subs {
		fn(c)
	}
}

func (b *Board) debugLog(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ button.OutputSink = (*Board)(nil)
	_ button.InputQuery = (*Board)(nil)
)
