package hold_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/button/mocks"
	"github.com/tempohold/tempohold-go/pkg/hold"
	"github.com/tempohold/tempohold-go/pkg/timer"
)

func TestEngineWithMockHost(t *testing.T) {
	out := button.Ref{Device: "vjoy1", Index: 1}
	guard := button.GuardRef{Source: button.SourcePhysical, Button: button.Ref{Device: "stick", Index: 7}}

	sink := mocks.NewMockOutputSink(t)
	query := mocks.NewMockInputQuery(t)

	sink.EXPECT().Set(out, true).Return().Once()
	query.EXPECT().IsPressed(button.SourcePhysical, guard.Button).Return(true).Once()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := timer.NewFakeClock(start)

	e, err := hold.New(hold.Config{
		MappingID: "flaps",
		Output:    out,
		Clock:     clock,
		Profile1: hold.Profile{
			Enabled:    true,
			TempoDelay: 500 * time.Millisecond,
			Hold:       5 * time.Second,
			Guard:      &guard,
		},
	}, sink, query, clock)
	require.NoError(t, err)

	e.OnPress(start)
	clock.Set(start.Add(time.Second))
	d := e.OnRelease(start.Add(time.Second))

	assert.Equal(t, hold.HoldScheduled, d.Outcome)
	assert.Equal(t, 1, d.Profile)
	assert.Equal(t, 4*time.Second, d.Remaining)

	sink.EXPECT().Set(out, false).Return().Once()
	clock.Advance(4 * time.Second)

	assert.False(t, e.Snapshot().Output)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "RELEASED", hold.ReleasedImmediately.String())
	assert.Equal(t, "HOLD_SCHEDULED", hold.HoldScheduled.String())
	assert.Equal(t, "HOLD_ELAPSED", hold.HoldElapsed.String())
	assert.Equal(t, "UNKNOWN", hold.Outcome(9).String())
}
