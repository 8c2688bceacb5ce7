//go:build linux

package evdev

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	goevdev "github.com/holoplot/go-evdev"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

// Source errors.
var (
	ErrNoKeys = errors.New("device reports no key codes")
)

// SourceConfig configures a Source.
type SourceConfig struct {
	// Device is the device ID used in button references.
	Device string

	// Path is the event device, e.g. /dev/input/event3.
	Path string

	// Codes lists the key codes numbered as buttons 1..n. Empty means every
	// key the device reports, in ascending order.
	Codes []goevdev.EvCode

	// Grab takes exclusive access so other readers do not see the events.
	Grab bool

	// Clock stamps events. Kernel timestamps are wall-clock based, so the
	// time of reading is used instead. Defaults to the system clock.
	Clock timer.Clock

	// Logger is the optional logger for debug output.
	// If nil, no logging is performed.
	Logger *slog.Logger
}

// Source reads button events from an input device.
type Source struct {
	cfg   SourceConfig
	dev   *goevdev.InputDevice
	index map[goevdev.EvCode]int
	codes []goevdev.EvCode

	closeOnce sync.Once
	closeErr  error
}

// OpenSource opens the device described by cfg.
func OpenSource(cfg SourceConfig) (*Source, error) {
	dev, err := goevdev.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
	}

	codes := cfg.Codes
	if len(codes) == 0 {
		codes = dev.CapableEvents(goevdev.EV_KEY)
	}
	if len(codes) == 0 {
		dev.Close()
		return nil, fmt.Errorf("%s: %w", cfg.Path, ErrNoKeys)
	}

	if cfg.Grab {
		if err := dev.Grab(); err != nil {
			dev.Close()
			return nil, fmt.Errorf("grab %s: %w", cfg.Path, err)
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = timer.System{}
	}

	return &Source{
		cfg:   cfg,
		dev:   dev,
		index: keyIndex(codes),
		codes: codes,
	}, nil
}

// Buttons returns the number of buttons the source exposes.
func (s *Source) Buttons() int {
	return len(s.codes)
}

// Name returns the kernel device name.
func (s *Source) Name() string {
	name, err := s.dev.Name()
	if err != nil {
		return s.cfg.Path
	}
	return name
}

// Run reads events until ctx is done or the device fails, calling fn for
// every press and release. Closing the device unblocks the read.
func (s *Source) Run(ctx context.Context, fn func(button.Event)) error {
	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	for {
		raw, err := s.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read %s: %w", s.cfg.Path, err)
		}

		ev, ok := toEvent(s.cfg.Device, s.index, raw, s.cfg.Clock.Now())
		if !ok {
			continue
		}
		if s.cfg.Logger != nil {
			s.cfg.Logger.Debug("input", "event", ev.String())
		}
		fn(ev)
	}
}

// Close releases the device. It is safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		if s.cfg.Grab {
			s.dev.Ungrab()
		}
		s.closeErr = s.dev.Close()
	})
	return s.closeErr
}
