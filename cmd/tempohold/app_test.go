package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/config"
	"github.com/tempohold/tempohold-go/pkg/hold"
	"github.com/tempohold/tempohold-go/pkg/log"
	"github.com/tempohold/tempohold-go/pkg/mapping"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

const testConfig = `
mode: Landing
devices:
  physical: [{id: stick, buttons: 8}]
  virtual: [{id: vjoy1, buttons: 8}]
mappings:
  - id: gear
    mode: Landing
    input: stick:1
    output: vjoy1:1
    cancel: {enabled: true, button: stick:2}
    hold1: {enabled: true, tempo_delay: 0.5, hold_time: 5}
  - id: broken
    input: stick:9
    output: vjoy1:2
`

func TestBuildAppEndToEnd(t *testing.T) {
	f, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := timer.NewFakeClock(start)
	trace := log.NewMemoryLogger(0)

	var mirrored []bool
	a, err := buildApp(f, appOptions{
		Clock:       clock,
		Scheduler:   clock,
		TraceLogger: trace,
		Sinks: []button.OutputSink{button.OutputFunc(func(ref button.Ref, pressed bool) {
			mirrored = append(mirrored, pressed)
		})},
	})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "Landing", a.router.Mode())
	require.Len(t, a.diagnostics, 1)
	assert.Equal(t, "broken", a.diagnostics[0].Mapping)

	broken, ok := a.router.Get("broken")
	require.True(t, ok)
	assert.False(t, broken.Enabled())

	in := button.Ref{Device: "stick", Index: 1}
	out := button.Ref{Device: "vjoy1", Index: 1}

	_, err = a.board.SetPhysical(in, true)
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = a.board.SetPhysical(in, false)
	require.NoError(t, err)

	assert.True(t, a.board.IsPressed(button.SourceVirtual, out))
	clock.Advance(4 * time.Second)
	assert.False(t, a.board.IsPressed(button.SourceVirtual, out))
	assert.Equal(t, []bool{true, false}, mirrored)

	var diag int
	for _, ev := range trace.Events() {
		if ev.Kind == log.KindDiagnostic {
			diag++
		}
	}
	assert.Equal(t, 1, diag)
}

func TestBuildAppUsesDeviceReadTime(t *testing.T) {
	f, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := timer.NewFakeClock(start)
	a, err := buildApp(f, appOptions{Clock: clock, Scheduler: clock})
	require.NoError(t, err)
	defer a.Close()

	var decisions []hold.Decision
	a.router.OnDecision(func(_ *mapping.Mapping, d hold.Decision) {
		decisions = append(decisions, d)
	})

	in := button.Ref{Device: "stick", Index: 1}
	_, err = a.board.Apply(button.Event{Ref: in, Pressed: true, Time: start})
	require.NoError(t, err)

	// The release reaches the board late; timing follows the read stamp.
	clock.Advance(3 * time.Second)
	_, err = a.board.Apply(button.Event{Ref: in, Pressed: false, Time: start.Add(600 * time.Millisecond)})
	require.NoError(t, err)

	require.Len(t, decisions, 1)
	assert.Equal(t, hold.HoldScheduled, decisions[0].Outcome)
	assert.Equal(t, 4400*time.Millisecond, decisions[0].Remaining)
}

func TestBuildAppModeOverride(t *testing.T) {
	f, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	a, err := buildApp(f, appOptions{Mode: "Combat", Debug: true})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "Combat", a.router.Mode())
	gear, _ := a.router.Get("gear")
	assert.True(t, gear.Spec().Hold.Debug)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warn").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}
