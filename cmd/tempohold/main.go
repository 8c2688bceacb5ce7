// Command tempohold runs tempo-hold mappings.
//
// A mapping turns a physical button into a virtual one. A short press is
// passed through; a press held past the tempo delay keeps the virtual
// button pressed until the hold time has elapsed.
//
// Usage:
//
//	tempohold [flags]
//
// Flags:
//
//	-config string      Configuration file (default "tempohold.yaml")
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-trace string       Write trace events to this .tlog file
//	-debug              Enable debug output for every mapping
//	-mode string        Initial mode (overrides the file)
//	-evdev              Bridge Linux input devices to uinput (Linux only)
//	-interactive        Run the interactive simulator (default true)
//
// Examples:
//
//	# Try a configuration in the simulator
//	tempohold -config gear.yaml
//
//	# Run against real hardware and record a trace
//	tempohold -config gear.yaml -evdev -interactive=false -trace gear.tlog
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tempohold/tempohold-go/cmd/tempohold/interactive"
	"github.com/tempohold/tempohold-go/pkg/config"
	tlog "github.com/tempohold/tempohold-go/pkg/log"
)

// Options holds the command line settings.
type Options struct {
	ConfigFile  string
	LogLevel    string
	TraceFile   string
	Debug       bool
	Mode        string
	Evdev       bool
	Interactive bool
}

var opts Options

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "tempohold.yaml", "Configuration file")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.TraceFile, "trace", "", "Write trace events to this .tlog file")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug output for every mapping")
	flag.StringVar(&opts.Mode, "mode", "", "Initial mode (overrides the file)")
	flag.BoolVar(&opts.Evdev, "evdev", false, "Bridge Linux input devices to uinput (Linux only)")
	flag.BoolVar(&opts.Interactive, "interactive", true, "Run the interactive simulator")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	setupLogging(opts.LogLevel)

	file, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The shell owns the terminal; route log output through it.
	var shell *interactive.Shell
	var logOut io.Writer = os.Stderr
	if opts.Interactive {
		shell, err = interactive.New()
		if err != nil {
			log.Fatalf("Failed to start interactive shell: %v", err)
		}
		logOut = shell.Stderr()
		log.SetOutput(logOut)
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: parseLevel(opts.LogLevel)}))

	memory := tlog.NewMemoryLogger(1000)
	var fileLogger *tlog.FileLogger
	if opts.TraceFile != "" {
		fileLogger, err = tlog.NewFileLogger(opts.TraceFile)
		if err != nil {
			log.Fatalf("Failed to create trace file: %v", err)
		}
		defer fileLogger.Close()
		log.Printf("Tracing to: %s", opts.TraceFile)
	}
	// Only add the file logger when non-nil to avoid a typed-nil interface.
	traceLoggers := []tlog.Logger{memory}
	if fileLogger != nil {
		traceLoggers = append(traceLoggers, fileLogger)
	}
	if opts.Debug {
		traceLoggers = append(traceLoggers, tlog.NewSlogAdapter(logger))
	}
	trace := tlog.NewMultiLogger(traceLoggers...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appOpts := appOptions{
		Mode:        opts.Mode,
		Debug:       opts.Debug,
		Logger:      logger,
		TraceLogger: trace,
	}

	var br *bridge
	if opts.Evdev {
		br, err = openBridge(file, logger)
		if err != nil {
			log.Fatalf("Failed to open input devices: %v", err)
		}
		defer br.Close()
		appOpts.Sinks = br.Sinks()
	}

	a, err := buildApp(file, appOpts)
	if err != nil {
		log.Fatalf("Failed to build mappings: %v", err)
	}
	defer a.Close()

	log.Printf("Loaded %d mappings from %s (mode %q)", len(a.router.Mappings()), opts.ConfigFile, a.router.Mode())
	if n := len(a.diagnostics); n > 0 {
		log.Printf("Configuration has %d diagnostics", n)
	}

	if br != nil {
		go func() {
			if err := br.Run(ctx, a.board); err != nil && ctx.Err() == nil {
				log.Printf("Input bridge stopped: %v", err)
				cancel()
			}
		}()
	}

	if shell != nil {
		shell.Attach(interactive.Env{
			Board:  a.board,
			Router: a.router,
			Trace:  memory,
			Clock:  a.clock,
		})
		go shell.Run(ctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	cancel()
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

