//go:build linux

package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/config"
	"github.com/tempohold/tempohold-go/pkg/evdev"
	"github.com/tempohold/tempohold-go/pkg/host"
)

// bridge connects physical event devices and uinput outputs to a board.
type bridge struct {
	sources []*evdev.Source
	outputs []*evdev.VirtualOutput
	logger  *slog.Logger
}

// openBridge opens every physical device that has a path and creates a
// uinput device for every virtual device.
func openBridge(f *config.File, logger *slog.Logger) (*bridge, error) {
	b := &bridge{logger: logger}

	for _, d := range f.Devices.Physical {
		if d.Path == "" {
			logger.Warn("physical device has no path; not bridged", "device", d.ID)
			continue
		}
		src, err := evdev.OpenSource(evdev.SourceConfig{
			Device: d.ID,
			Path:   d.Path,
			Grab:   true,
			Logger: logger,
		})
		if err != nil {
			b.Close()
			return nil, err
		}
		if src.Buttons() < d.Buttons {
			logger.Warn("device reports fewer buttons than declared",
				"device", d.ID, "declared", d.Buttons, "reported", src.Buttons())
		}
		logger.Info("input device opened", "device", d.ID, "name", src.Name(), "buttons", src.Buttons())
		b.sources = append(b.sources, src)
	}

	for _, d := range f.Devices.Virtual {
		out, err := evdev.CreateOutput(evdev.OutputConfig{
			Device:  d.ID,
			Name:    d.Name,
			Buttons: d.Buttons,
			Logger:  logger,
		})
		if err != nil {
			b.Close()
			return nil, err
		}
		b.outputs = append(b.outputs, out)
	}

	if len(b.sources) == 0 {
		b.Close()
		return nil, fmt.Errorf("no physical device has a path")
	}
	return b, nil
}

// Sinks returns the uinput outputs.
func (b *bridge) Sinks() []button.OutputSink {
	sinks := make([]button.OutputSink, len(b.outputs))
	for i, o := range b.outputs {
		sinks[i] = o
	}
	return sinks
}

// Run feeds every source into the board until ctx is done or a device
// fails.
func (b *bridge) Run(ctx context.Context, board *host.Board) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range b.sources {
		src := src
		g.Go(func() error {
			return src.Run(ctx, func(ev button.Event) {
				if _, err := board.Apply(ev); err != nil {
					b.logger.Debug("input outside declared buttons", "event", ev.String(), "error", err)
				}
			})
		})
	}
	return g.Wait()
}

// Close releases every device.
func (b *bridge) Close() {
	for _, src := range b.sources {
		src.Close()
	}
	for _, out := range b.outputs {
		if err := out.Close(); err != nil {
			b.logger.Warn("failed to destroy uinput device", "error", err)
		}
	}
}
