package main

import (
	"fmt"
	"log/slog"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/config"
	"github.com/tempohold/tempohold-go/pkg/host"
	"github.com/tempohold/tempohold-go/pkg/log"
	"github.com/tempohold/tempohold-go/pkg/mapping"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

// appOptions configures buildApp.
type appOptions struct {
	// Mode overrides the mode from the file when non-empty.
	Mode string

	// Debug forces debug output for every mapping.
	Debug bool

	// Sinks receive output changes in addition to the board.
	Sinks []button.OutputSink

	Clock     timer.Clock
	Scheduler timer.Scheduler

	Logger      *slog.Logger
	TraceLogger log.Logger
}

// app is a loaded configuration wired into a board and a router.
type app struct {
	board       *host.Board
	router      *mapping.Router
	clock       timer.Clock
	diagnostics []config.Diagnostic
}

// buildApp declares the devices, resolves and registers the mappings and
// routes physical changes on the board to the router.
func buildApp(f *config.File, opts appOptions) (*app, error) {
	if opts.Clock == nil {
		opts.Clock = timer.System{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timer.System{}
	}
	if opts.Debug {
		f.Debug = true
	}

	board, err := config.BuildBoard(f, host.Config{Logger: opts.Logger})
	if err != nil {
		return nil, err
	}

	mode := f.Mode
	if opts.Mode != "" {
		mode = opts.Mode
	}
	router := mapping.NewRouter(mapping.RouterConfig{
		Mode:   mode,
		Clock:  opts.Clock,
		Logger: opts.Logger,
	})

	var sink button.OutputSink = board
	if len(opts.Sinks) > 0 {
		sink = append(button.Sinks{board}, opts.Sinks...)
	}
	deps := mapping.Deps{
		Sink:        sink,
		Query:       board,
		Scheduler:   opts.Scheduler,
		Clock:       opts.Clock,
		Logger:      opts.Logger,
		TraceLogger: opts.TraceLogger,
	}

	specs, diags := config.Resolve(f, board)
	config.Report(diags, opts.Logger, opts.TraceLogger, opts.Clock.Now())

	for _, spec := range specs {
		m, err := mapping.New(spec, deps)
		if err != nil {
			return nil, fmt.Errorf("mapping %q: %w", spec.ID, err)
		}
		if err := router.Add(m); err != nil {
			return nil, err
		}
	}

	board.OnChange(func(c host.Change) {
		if c.Source != button.SourcePhysical {
			return
		}
		// A zero Time is stamped by the router clock.
		router.Dispatch(button.Event{Ref: c.Ref, Pressed: c.Pressed, Time: c.Time})
	})

	return &app{
		board:       board,
		router:      router,
		clock:       opts.Clock,
		diagnostics: diags,
	}, nil
}

// Close stops every mapping, releasing held outputs.
func (a *app) Close() {
	a.router.Close()
}
