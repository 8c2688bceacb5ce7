// Package interactive provides the interactive simulator for tempohold.
//
// The simulator drives the physical buttons of a host.Board from the
// keyboard and prints every virtual output change and release decision.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/hold"
	"github.com/tempohold/tempohold-go/pkg/host"
	"github.com/tempohold/tempohold-go/pkg/log"
	"github.com/tempohold/tempohold-go/pkg/mapping"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

// DefaultTap is the press length of "tap" without an explicit duration.
const DefaultTap = 100 * time.Millisecond

// Env is what the shell operates on.
type Env struct {
	Board  *host.Board
	Router *mapping.Router

	// Trace holds recent trace events for the "trace" command. Optional.
	Trace *log.MemoryLogger

	// Clock and Scheduler default to the system clock.
	Clock     timer.Clock
	Scheduler timer.Scheduler
}

// Shell is the interactive command loop.
type Shell struct {
	rl  *readline.Instance
	out io.Writer
	env Env
}

// New creates a shell reading from the terminal.
func New() (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tempohold> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{rl: rl, out: rl.Stdout()}, nil
}

// newWithOutput creates a shell without a terminal, for tests.
func newWithOutput(out io.Writer) *Shell {
	return &Shell{out: out}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	if s.rl != nil {
		return s.rl.Stderr()
	}
	return s.out
}

// Attach binds the shell to a board and router and subscribes to output
// changes and decisions.
func (s *Shell) Attach(env Env) {
	if env.Clock == nil {
		env.Clock = timer.System{}
	}
	if env.Scheduler == nil {
		env.Scheduler = timer.System{}
	}
	s.env = env

	env.Board.OnChange(func(c host.Change) {
		if c.Source != button.SourceVirtual {
			return
		}
		state := "OFF"
		if c.Pressed {
			state = "ON"
		}
		fmt.Fprintf(s.out, "  -> %s %s\n", c.Ref, state)
	})
	env.Router.OnDecision(func(m *mapping.Mapping, d hold.Decision) {
		fmt.Fprintf(s.out, "  %s: %s\n", m.ID(), formatDecision(d))
	})
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.exec(line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// exec runs one command line. It returns false when the shell should exit.
func (s *Shell) exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "press", "p":
		s.cmdPhysical(args, true)

	case "release", "r":
		s.cmdPhysical(args, false)

	case "tap", "t":
		s.cmdTap(args)

	case "set":
		s.cmdSet(args)

	case "status", "s":
		s.cmdStatus()

	case "mappings", "m":
		s.cmdMappings()

	case "mode":
		s.cmdMode(args)

	case "devices", "d":
		s.cmdDevices()

	case "trace":
		s.cmdTrace(args)

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Tempo-Hold Simulator Commands:
  Physical buttons:
    press <dev:idx>          - Press a physical button
    release <dev:idx>        - Release a physical button
    tap <dev:idx> [seconds]  - Press and release after a delay (default 0.1)

  Virtual buttons:
    set <dev:idx> on|off     - Set a virtual button (e.g. a modifier)

  State:
    status                   - Show engines and pressed buttons
    mappings                 - List mappings
    devices                  - List devices
    mode [name]              - Show or switch the mode
    trace [n]                - Show the last n trace events (default 20)

  General:
    help                     - Show this help
    quit                     - Exit`)
}

func (s *Shell) parseRef(args []string, usage string) (button.Ref, bool) {
	if len(args) < 1 {
		fmt.Fprintf(s.out, "Usage: %s\n", usage)
		return button.Ref{}, false
	}
	ref, err := button.ParseRef(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return button.Ref{}, false
	}
	return ref, true
}

func (s *Shell) cmdPhysical(args []string, pressed bool) {
	ref, ok := s.parseRef(args, "press|release <dev:idx>")
	if !ok {
		return
	}
	changed, err := s.env.Board.SetPhysical(ref, pressed)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if !changed {
		fmt.Fprintf(s.out, "%s already %s\n", ref, upDown(pressed))
	}
}

func (s *Shell) cmdTap(args []string) {
	ref, ok := s.parseRef(args, "tap <dev:idx> [seconds]")
	if !ok {
		return
	}

	d := DefaultTap
	if len(args) > 1 {
		secs, err := strconv.ParseFloat(args[1], 64)
		if err != nil || secs < 0 {
			fmt.Fprintf(s.out, "Invalid duration: %s\n", args[1])
			return
		}
		d = time.Duration(secs * float64(time.Second))
	}

	if _, err := s.env.Board.SetPhysical(ref, true); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.env.Scheduler.Schedule(d, func() {
		s.env.Board.SetPhysical(ref, false)
	})
	fmt.Fprintf(s.out, "%s held for %v\n", ref, d)
}

func (s *Shell) cmdSet(args []string) {
	ref, ok := s.parseRef(args, "set <dev:idx> on|off")
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: set <dev:idx> on|off")
		return
	}

	var pressed bool
	switch strings.ToLower(args[1]) {
	case "on", "1", "true", "down":
		pressed = true
	case "off", "0", "false", "up":
	default:
		fmt.Fprintf(s.out, "Invalid state: %s (use on or off)\n", args[1])
		return
	}

	if err := s.env.Board.Resolve(button.SourceVirtual, ref); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.env.Board.Set(ref, pressed)
}

func (s *Shell) cmdStatus() {
	now := s.env.Clock.Now()
	fmt.Fprintf(s.out, "Mode: %s\n", displayMode(s.env.Router.Mode()))

	for _, m := range s.env.Router.Mappings() {
		e := m.Engine()
		if e == nil {
			fmt.Fprintf(s.out, "  %-12s disabled (%s)\n", m.ID(), m.DisabledReason())
			continue
		}
		snap := e.Snapshot()
		line := fmt.Sprintf("  %-12s output=%s", m.ID(), onOff(snap.Output))
		if snap.PressActive {
			line += fmt.Sprintf(" press=%.2fs", now.Sub(snap.PressStart).Seconds())
		}
		if snap.TimerActive {
			line += fmt.Sprintf(" hold=%.2fs left", snap.TimerDeadline.Sub(now).Seconds())
		}
		fmt.Fprintln(s.out, line)
	}

	fmt.Fprintf(s.out, "Physical pressed: %s\n", joinRefs(s.env.Board.Pressed(button.SourcePhysical)))
	fmt.Fprintf(s.out, "Virtual pressed:  %s\n", joinRefs(s.env.Board.Pressed(button.SourceVirtual)))
}

func (s *Shell) cmdMappings() {
	for _, m := range s.env.Router.Mappings() {
		spec := m.Spec()
		fmt.Fprintf(s.out, "%s", m.ID())
		if spec.Description != "" {
			fmt.Fprintf(s.out, " - %s", spec.Description)
		}
		fmt.Fprintln(s.out)

		if !m.Enabled() {
			fmt.Fprintf(s.out, "    disabled: %s\n", m.DisabledReason())
			continue
		}
		fmt.Fprintf(s.out, "    %s -> %s mode=%s", spec.Input, spec.Output, displayMode(spec.Mode))
		if spec.Cancel != nil {
			fmt.Fprintf(s.out, " cancel=%s", spec.Cancel)
		}
		if spec.Hold.Alternating {
			fmt.Fprint(s.out, " alternating")
		}
		fmt.Fprintln(s.out)
		printProfile(s.out, 2, spec.Hold.Profile2)
		printProfile(s.out, 1, spec.Hold.Profile1)
	}
}

func printProfile(w io.Writer, id int, p hold.Profile) {
	if !p.Enabled {
		return
	}
	fmt.Fprintf(w, "    hold%d: tempo=%v hold=%v", id, p.TempoDelay, p.Hold)
	if p.Guard != nil {
		fmt.Fprintf(w, " guard=%s", p.Guard)
	}
	if p.Description != "" {
		fmt.Fprintf(w, " (%s)", p.Description)
	}
	fmt.Fprintln(w)
}

func (s *Shell) cmdMode(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Mode: %s\n", displayMode(s.env.Router.Mode()))
		if modes := s.env.Router.Modes(); len(modes) > 0 {
			fmt.Fprintf(s.out, "Available: %s\n", strings.Join(modes, ", "))
		}
		return
	}
	s.env.Router.SetMode(args[0])
	fmt.Fprintf(s.out, "Mode: %s\n", args[0])
}

func (s *Shell) cmdDevices() {
	for _, src := range []button.Source{button.SourcePhysical, button.SourceVirtual} {
		for _, d := range s.env.Board.Devices(src) {
			fmt.Fprintf(s.out, "  %-8s %-12s %d buttons\n", src, d.ID, d.Buttons)
		}
	}
}

func (s *Shell) cmdTrace(args []string) {
	if s.env.Trace == nil {
		fmt.Fprintln(s.out, "Tracing is not enabled")
		return
	}
	n := 20
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			fmt.Fprintf(s.out, "Invalid count: %s\n", args[0])
			return
		}
		n = v
	}

	events := s.env.Trace.Events()
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for _, ev := range events {
		fmt.Fprintf(s.out, "  %s %-10s %-10s %s\n", ev.Timestamp.Format("15:04:05.000"), ev.MappingID, ev.Kind, summarize(ev))
	}
}

func formatDecision(d hold.Decision) string {
	switch d.Outcome {
	case hold.HoldScheduled:
		return fmt.Sprintf("%s profile %d (%.2fs remaining)", d.Outcome, d.Profile, d.Remaining.Seconds())
	case hold.HoldElapsed:
		return fmt.Sprintf("%s profile %d (%.2fs late)", d.Outcome, d.Profile, -d.Remaining.Seconds())
	default:
		return fmt.Sprintf("%s (%s)", d.Outcome, d.Reason)
	}
}

// summarize renders the payload of a trace event in one line.
func summarize(ev log.Event) string {
	switch {
	case ev.Input != nil:
		s := ev.Input.Action.String()
		if ev.Input.HeldFor != nil {
			s += fmt.Sprintf(" held=%v", *ev.Input.HeldFor)
		}
		if ev.Input.Ignored {
			s += " ignored"
		}
		return s
	case ev.Decision != nil:
		return fmt.Sprintf("%s profile=%d %s", ev.Decision.Outcome, ev.Decision.Profile, ev.Decision.Reason)
	case ev.Timer != nil:
		return fmt.Sprintf("%s seq=%d", ev.Timer.Action, ev.Timer.Seq)
	case ev.Output != nil:
		return fmt.Sprintf("%s %s", ev.Output.Button, onOff(ev.Output.Pressed))
	case ev.Diagnostic != nil:
		return fmt.Sprintf("%s %s: %s", ev.Diagnostic.Severity, ev.Diagnostic.Field, ev.Diagnostic.Message)
	}
	return ""
}

func joinRefs(refs []button.Ref) string {
	if len(refs) == 0 {
		return "-"
	}
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

func displayMode(mode string) string {
	if mode == "" {
		return "(all)"
	}
	return mode
}

func onOff(pressed bool) string {
	if pressed {
		return "ON"
	}
	return "OFF"
}

func upDown(pressed bool) string {
	if pressed {
		return "down"
	}
	return "up"
}
