package interactive

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/hold"
	"github.com/tempohold/tempohold-go/pkg/host"
	"github.com/tempohold/tempohold-go/pkg/log"
	"github.com/tempohold/tempohold-go/pkg/mapping"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

type shellFixture struct {
	shell *Shell
	out   *bytes.Buffer
	clock *timer.FakeClock
	board *host.Board
}

func newShellFixture(t *testing.T) *shellFixture {
	t.Helper()
	clock := timer.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	board := host.NewBoard(host.Config{})
	if err := board.AddDevice(button.SourcePhysical, "stick", 8); err != nil {
		t.Fatal(err)
	}
	if err := board.AddDevice(button.SourceVirtual, "vjoy1", 8); err != nil {
		t.Fatal(err)
	}

	trace := log.NewMemoryLogger(0)
	router := mapping.NewRouter(mapping.RouterConfig{Clock: clock})
	m, err := mapping.New(mapping.Spec{
		ID:          "gear",
		Description: "landing gear",
		Input:       button.Ref{Device: "stick", Index: 1},
		Output:      button.Ref{Device: "vjoy1", Index: 1},
		Hold: hold.Config{
			Profile1: hold.Profile{Enabled: true, TempoDelay: 500 * time.Millisecond, Hold: 5 * time.Second},
		},
	}, mapping.Deps{Sink: board, Query: board, Scheduler: clock, Clock: clock, TraceLogger: trace})
	if err != nil {
		t.Fatal(err)
	}
	if err := router.Add(m); err != nil {
		t.Fatal(err)
	}
	board.OnChange(func(c host.Change) {
		if c.Source == button.SourcePhysical {
			router.Dispatch(button.Event{Ref: c.Ref, Pressed: c.Pressed})
		}
	})

	out := &bytes.Buffer{}
	s := newWithOutput(out)
	s.Attach(Env{Board: board, Router: router, Trace: trace, Clock: clock, Scheduler: clock})

	return &shellFixture{shell: s, out: out, clock: clock, board: board}
}

func (f *shellFixture) run(t *testing.T, line string) string {
	t.Helper()
	f.out.Reset()
	if !f.shell.exec(line) {
		t.Fatalf("exec(%q) requested exit", line)
	}
	return f.out.String()
}

func TestShellPressRelease(t *testing.T) {
	f := newShellFixture(t)

	if out := f.run(t, "press stick:1"); !strings.Contains(out, "vjoy1:1 ON") {
		t.Errorf("press output = %q", out)
	}

	f.clock.Advance(time.Second)
	out := f.run(t, "release stick:1")
	if !strings.Contains(out, "gear: HOLD_SCHEDULED profile 1 (4.00s remaining)") {
		t.Errorf("release output = %q", out)
	}

	f.out.Reset()
	f.clock.Advance(4 * time.Second)
	if !strings.Contains(f.out.String(), "vjoy1:1 OFF") {
		t.Errorf("expected output release, got %q", f.out.String())
	}
}

func TestShellTap(t *testing.T) {
	f := newShellFixture(t)

	out := f.run(t, "tap stick:1 0.2")
	if !strings.Contains(out, "held for 200ms") {
		t.Errorf("tap output = %q", out)
	}

	f.out.Reset()
	f.clock.Advance(200 * time.Millisecond)
	if !strings.Contains(f.out.String(), "RELEASED") {
		t.Errorf("expected immediate release, got %q", f.out.String())
	}
	if f.board.IsPressed(button.SourceVirtual, button.Ref{Device: "vjoy1", Index: 1}) {
		t.Error("short tap should release the output")
	}
}

func TestShellSetVirtual(t *testing.T) {
	f := newShellFixture(t)

	f.run(t, "set vjoy1:5 on")
	if !f.board.IsPressed(button.SourceVirtual, button.Ref{Device: "vjoy1", Index: 5}) {
		t.Error("set on should press the virtual button")
	}
	if out := f.run(t, "set stick:1 on"); !strings.Contains(out, "Error") {
		t.Errorf("set on a physical ref should fail, got %q", out)
	}
	if out := f.run(t, "set vjoy1:5 maybe"); !strings.Contains(out, "Invalid state") {
		t.Errorf("got %q", out)
	}
}

func TestShellStatusAndMappings(t *testing.T) {
	f := newShellFixture(t)
	f.run(t, "press stick:1")

	out := f.run(t, "status")
	for _, want := range []string{"Mode: (all)", "gear", "output=ON", "Physical pressed: stick:1"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}

	out = f.run(t, "mappings")
	for _, want := range []string{"gear - landing gear", "stick:1 -> vjoy1:1", "hold1: tempo=500ms hold=5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("mappings missing %q:\n%s", want, out)
		}
	}
}

func TestShellModeAndTrace(t *testing.T) {
	f := newShellFixture(t)

	if out := f.run(t, "mode Combat"); !strings.Contains(out, "Mode: Combat") {
		t.Errorf("mode output = %q", out)
	}

	f.run(t, "press stick:1")
	out := f.run(t, "trace 2")
	if strings.Count(out, "\n") != 2 || !strings.Contains(out, "OUTPUT") {
		t.Errorf("trace output = %q", out)
	}
}

func TestShellErrorsAndQuit(t *testing.T) {
	f := newShellFixture(t)

	tests := map[string]string{
		"press":          "Usage",
		"press nope":     "Error",
		"press stick:99": "Error",
		"tap stick:1 x":  "Invalid duration",
		"trace 0":        "Invalid count",
		"frobnicate":     "Unknown command",
	}
	for line, want := range tests {
		if out := f.run(t, line); !strings.Contains(out, want) {
			t.Errorf("%q output = %q, want %q", line, out, want)
		}
	}

	if f.shell.exec("quit") {
		t.Error("quit should request exit")
	}
}
