package mapping

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/hold"
	"github.com/tempohold/tempohold-go/pkg/host"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

var testStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func ref(dev string, idx int) button.Ref {
	return button.Ref{Device: dev, Index: idx}
}

type routerFixture struct {
	clock  *timer.FakeClock
	board  *host.Board
	router *Router
	deps   Deps
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	clock := timer.NewFakeClock(testStart)
	board := host.NewBoard(host.Config{})
	require.NoError(t, board.AddDevice(button.SourcePhysical, "stick", 8))
	require.NoError(t, board.AddDevice(button.SourceVirtual, "vjoy1", 8))

	return &routerFixture{
		clock:  clock,
		board:  board,
		router: NewRouter(RouterConfig{Clock: clock}),
		deps:   Deps{Sink: board, Query: board, Scheduler: clock, Clock: clock},
	}
}

func (f *routerFixture) add(t *testing.T, spec Spec) *Mapping {
	t.Helper()
	m, err := New(spec, f.deps)
	require.NoError(t, err)
	require.NoError(t, f.router.Add(m))
	return m
}

// send moves the clock to offset seconds and dispatches an event.
func (f *routerFixture) send(offset time.Duration, r button.Ref, pressed bool) int {
	now := testStart.Add(offset)
	f.clock.Set(now)
	return f.router.Dispatch(button.Event{Ref: r, Pressed: pressed, Time: now})
}

func holdSpec(id string, in, out button.Ref) Spec {
	return Spec{
		ID:     id,
		Input:  in,
		Output: out,
		Hold: hold.Config{
			Profile1: hold.Profile{Enabled: true, TempoDelay: 500 * time.Millisecond, Hold: 5 * time.Second},
		},
	}
}

func TestNewRequiresID(t *testing.T) {
	_, err := New(Spec{}, Deps{})
	assert.ErrorIs(t, err, ErrNoID)
}

func TestUnresolvedInputDisablesMapping(t *testing.T) {
	f := newRouterFixture(t)
	m := f.add(t, Spec{ID: "broken", Output: ref("vjoy1", 1)})

	assert.False(t, m.Enabled())
	assert.Equal(t, ReasonInputUnresolved, m.DisabledReason())
	assert.Len(t, f.router.Mappings(), 1)
}

func TestEngineErrorDisablesMapping(t *testing.T) {
	f := newRouterFixture(t)
	m := f.add(t, Spec{ID: "no-output", Input: ref("stick", 1)})

	assert.False(t, m.Enabled())
	assert.Contains(t, m.DisabledReason(), hold.ErrNoOutput.Error())
	assert.Equal(t, 0, f.send(0, ref("stick", 1), true))
}

func TestDuplicateID(t *testing.T) {
	f := newRouterFixture(t)
	f.add(t, holdSpec("gear", ref("stick", 1), ref("vjoy1", 1)))

	m, err := New(holdSpec("gear", ref("stick", 2), ref("vjoy1", 2)), f.deps)
	require.NoError(t, err)
	assert.True(t, errors.Is(f.router.Add(m), ErrDuplicateID))
}

func TestDispatchDrivesOutput(t *testing.T) {
	f := newRouterFixture(t)
	in, out := ref("stick", 1), ref("vjoy1", 1)
	f.add(t, holdSpec("gear", in, out))

	var decisions []hold.Decision
	f.router.OnDecision(func(m *Mapping, d hold.Decision) {
		assert.Equal(t, "gear", m.ID())
		decisions = append(decisions, d)
	})

	assert.Equal(t, 1, f.send(0, in, true))
	assert.True(t, f.board.IsPressed(button.SourceVirtual, out))

	f.send(time.Second, in, false)
	require.Len(t, decisions, 1)
	assert.Equal(t, hold.HoldScheduled, decisions[0].Outcome)
	assert.True(t, f.board.IsPressed(button.SourceVirtual, out))

	f.clock.Set(testStart.Add(5 * time.Second))
	assert.False(t, f.board.IsPressed(button.SourceVirtual, out))
}

func TestDispatchUnknownButton(t *testing.T) {
	f := newRouterFixture(t)
	f.add(t, holdSpec("gear", ref("stick", 1), ref("vjoy1", 1)))

	assert.Equal(t, 0, f.send(0, ref("stick", 5), true))
}

func TestSharedCancelInput(t *testing.T) {
	f := newRouterFixture(t)
	cancel := ref("stick", 8)

	a := holdSpec("a", ref("stick", 1), ref("vjoy1", 1))
	a.Cancel = &cancel
	b := holdSpec("b", ref("stick", 2), ref("vjoy1", 2))
	b.Cancel = &cancel
	f.add(t, a)
	f.add(t, b)

	f.send(0, ref("stick", 1), true)
	f.send(0, ref("stick", 2), true)
	assert.Equal(t, 2, f.send(200*time.Millisecond, cancel, true))
	// Releasing the cancel button does nothing.
	assert.Equal(t, 0, f.send(300*time.Millisecond, cancel, false))

	f.send(time.Second, ref("stick", 1), false)
	f.send(time.Second, ref("stick", 2), false)

	assert.False(t, f.board.IsPressed(button.SourceVirtual, ref("vjoy1", 1)))
	assert.False(t, f.board.IsPressed(button.SourceVirtual, ref("vjoy1", 2)))
	assert.Equal(t, 0, f.clock.Pending())
}

func TestModes(t *testing.T) {
	f := newRouterFixture(t)
	in := ref("stick", 1)

	gear := holdSpec("gear", in, ref("vjoy1", 1))
	gear.Mode = "Landing"
	flaps := holdSpec("flaps", in, ref("vjoy1", 2))
	flaps.Mode = "Combat"
	always := Spec{ID: "always", Input: in, Output: ref("vjoy1", 3)}
	f.add(t, gear)
	f.add(t, flaps)
	f.add(t, always)

	assert.ElementsMatch(t, []string{"Landing", "Combat"}, f.router.Modes())

	f.router.SetMode("Landing")
	assert.Equal(t, 2, f.send(0, in, true))
	assert.True(t, f.board.IsPressed(button.SourceVirtual, ref("vjoy1", 1)))
	assert.False(t, f.board.IsPressed(button.SourceVirtual, ref("vjoy1", 2)))
	assert.True(t, f.board.IsPressed(button.SourceVirtual, ref("vjoy1", 3)))

	// Switching mode mid-press still delivers the release.
	f.router.SetMode("Combat")
	assert.Equal(t, "Combat", f.router.Mode())
	assert.Equal(t, 2, f.send(100*time.Millisecond, in, false))
	assert.False(t, f.board.IsPressed(button.SourceVirtual, ref("vjoy1", 1)))
	assert.False(t, f.board.IsPressed(button.SourceVirtual, ref("vjoy1", 3)))
}

func TestModeSwitchKeepsRunningHold(t *testing.T) {
	f := newRouterFixture(t)
	in, out := ref("stick", 1), ref("vjoy1", 1)
	spec := holdSpec("gear", in, out)
	spec.Mode = "Landing"
	f.add(t, spec)

	f.router.SetMode("Landing")
	f.send(0, in, true)
	f.send(time.Second, in, false)
	f.router.SetMode("Combat")

	assert.True(t, f.board.IsPressed(button.SourceVirtual, out))
	f.clock.Set(testStart.Add(5 * time.Second))
	assert.False(t, f.board.IsPressed(button.SourceVirtual, out))
}

func TestRouterClose(t *testing.T) {
	f := newRouterFixture(t)
	in, out := ref("stick", 1), ref("vjoy1", 1)
	f.add(t, holdSpec("gear", in, out))

	f.send(0, in, true)
	f.send(time.Second, in, false)
	f.router.Close()

	assert.False(t, f.board.IsPressed(button.SourceVirtual, out))
	assert.Equal(t, 0, f.clock.Pending())
	assert.Equal(t, 0, f.send(2*time.Second, in, true))

	m, err := New(holdSpec("late", ref("stick", 2), ref("vjoy1", 2)), f.deps)
	require.NoError(t, err)
	assert.ErrorIs(t, f.router.Add(m), ErrClosed)
}

func TestDispatchStampsMissingTime(t *testing.T) {
	f := newRouterFixture(t)
	in := ref("stick", 1)
	m := f.add(t, holdSpec("gear", in, ref("vjoy1", 1)))

	f.clock.Set(testStart.Add(3 * time.Second))
	f.router.Dispatch(button.Event{Ref: in, Pressed: true})

	assert.Equal(t, testStart.Add(3*time.Second), m.Engine().Snapshot().PressStart)
}

func TestReleaseWithoutPressIgnored(t *testing.T) {
	f := newRouterFixture(t)
	in := ref("stick", 1)
	f.add(t, holdSpec("gear", in, ref("vjoy1", 1)))

	assert.Equal(t, 0, f.send(0, in, false))
}
