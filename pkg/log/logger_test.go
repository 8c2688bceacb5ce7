package log

import (
	"testing"
	"time"
)

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Log(Event{Kind: KindInput})
}

func TestMultiLoggerFansOut(t *testing.T) {
	a := NewMemoryLogger(0)
	b := NewMemoryLogger(0)
	m := NewMultiLogger(a, nil, b)

	m.Log(Event{Timestamp: time.Now(), Kind: KindTimer, Timer: &TimerEvent{Action: TimerFired, Seq: 3}})

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatalf("events: a=%d b=%d, want 1 each", len(a.Events()), len(b.Events()))
	}
	if a.Events()[0].Timer.Seq != 3 {
		t.Errorf("Seq = %d, want 3", a.Events()[0].Timer.Seq)
	}
}

func TestMemoryLoggerLimit(t *testing.T) {
	m := NewMemoryLogger(2)
	for i := 0; i < 5; i++ {
		m.Log(Event{Timer: &TimerEvent{Seq: uint64(i)}})
	}

	events := m.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Timer.Seq != 3 || events[1].Timer.Seq != 4 {
		t.Errorf("retained seqs %d,%d, want 3,4", events[0].Timer.Seq, events[1].Timer.Seq)
	}

	m.Reset()
	if len(m.Events()) != 0 {
		t.Error("Reset did not clear events")
	}
}

func TestKindStrings(t *testing.T) {
	tests := map[Kind]string{
		KindInput:      "INPUT",
		KindDecision:   "DECISION",
		KindTimer:      "TIMER",
		KindOutput:     "OUTPUT",
		KindDiagnostic: "DIAGNOSTIC",
		Kind(99):       "UNKNOWN",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
