//go:build linux

package evdev

import (
	"fmt"
	"log/slog"
	"sync"

	goevdev "github.com/holoplot/go-evdev"

	"github.com/tempohold/tempohold-go/pkg/button"
)

// OutputConfig configures a VirtualOutput.
type OutputConfig struct {
	// Device is the device ID used in button references.
	Device string

	// Name is the uinput device name shown to other programs.
	Name string

	// Buttons is the number of buttons, 1..MaxVirtualButtons.
	Buttons int

	// Logger is the optional logger for debug output.
	// If nil, no logging is performed.
	Logger *slog.Logger
}

// VirtualOutput is a uinput joystick driven by mappings.
// It is safe for concurrent use.
type VirtualOutput struct {
	mu     sync.Mutex
	cfg    OutputConfig
	dev    *goevdev.InputDevice
	codes  []goevdev.EvCode
	closed bool
}

// CreateOutput creates the uinput device. It needs write access to
// /dev/uinput.
func CreateOutput(cfg OutputConfig) (*VirtualOutput, error) {
	if cfg.Buttons <= 0 || cfg.Buttons > MaxVirtualButtons {
		return nil, fmt.Errorf("virtual device %s: %d buttons (must be 1..%d)", cfg.Device, cfg.Buttons, MaxVirtualButtons)
	}
	if cfg.Name == "" {
		cfg.Name = "tempohold " + cfg.Device
	}

	codes := outputCodes(cfg.Buttons)
	dev, err := goevdev.CreateDevice(
		cfg.Name,
		goevdev.InputID{
			BusType: 0x06, // BUS_VIRTUAL
			Vendor:  0x1209,
			Product: 0x7468,
			Version: 1,
		},
		map[goevdev.EvType][]goevdev.EvCode{
			goevdev.EV_KEY: codes,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create uinput device %s: %w", cfg.Name, err)
	}

	return &VirtualOutput{cfg: cfg, dev: dev, codes: codes}, nil
}

// Set writes a key event followed by a sync report. References to other
// devices or out-of-range buttons are ignored.
func (o *VirtualOutput) Set(ref button.Ref, pressed bool) {
	if ref.Device != o.cfg.Device || ref.Index < 1 || ref.Index > len(o.codes) {
		return
	}

	value := valueUp
	if pressed {
		value = valueDown
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	events := []goevdev.InputEvent{
		{Type: goevdev.EV_KEY, Code: o.codes[ref.Index-1], Value: value},
		{Type: goevdev.EV_SYN, Code: goevdev.SYN_REPORT, Value: 0},
	}
	for i := range events {
		if err := o.dev.WriteOne(&events[i]); err != nil {
			if o.cfg.Logger != nil {
				o.cfg.Logger.Warn("uinput write failed", "button", ref.String(), "error", err)
			}
			return
		}
	}
}

// Close destroys the uinput device.
func (o *VirtualOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	return goevdev.DestroyDevice(o.dev)
}

// Compile-time interface satisfaction check.
var _ button.OutputSink = (*VirtualOutput)(nil)
