package timer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSystemScheduleFires(t *testing.T) {
	done := make(chan struct{})
	System{}.Schedule(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestSystemCancelBeforeFire(t *testing.T) {
	var fired atomic.Bool
	h := System{}.Schedule(50*time.Millisecond, func() { fired.Store(true) })

	if !h.Cancel() {
		t.Fatal("Cancel() = false, want true for pending timer")
	}
	if h.Cancel() {
		t.Error("second Cancel() = true, want false")
	}

	time.Sleep(100 * time.Millisecond)
	if fired.Load() {
		t.Error("canceled timer fired")
	}
}

func TestSystemCancelAfterFire(t *testing.T) {
	done := make(chan struct{})
	h := System{}.Schedule(0, func() { close(done) })
	<-done

	if h.Cancel() {
		t.Error("Cancel() after fire = true, want false")
	}
}

func TestSystemCancelRaceFiresAtMostOnce(t *testing.T) {
	for i := 0; i < 200; i++ {
		var calls atomic.Int32
		h := System{}.Schedule(time.Duration(i%3)*time.Microsecond, func() { calls.Add(1) })
		canceled := h.Cancel()

		time.Sleep(time.Millisecond)
		n := calls.Load()
		if canceled && n != 0 {
			t.Fatalf("iteration %d: canceled timer ran %d times", i, n)
		}
		if !canceled && n != 1 {
			t.Fatalf("iteration %d: uncanceled timer ran %d times, want 1", i, n)
		}
	}
}

func TestFakeClockAdvanceFiresInOrder(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	var mu sync.Mutex
	var order []string
	var firedAt []time.Duration
	record := func(name string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			firedAt = append(firedAt, c.Now().Sub(start))
		}
	}

	c.Schedule(3*time.Second, record("c"))
	c.Schedule(1*time.Second, record("a"))
	c.Schedule(2*time.Second, record("b"))
	c.Schedule(2*time.Second, record("b2"))

	c.Advance(2500 * time.Millisecond)

	want := []string{"a", "b", "b2"}
	if len(order) != len(want) {
		t.Fatalf("fired %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
	if firedAt[0] != time.Second || firedAt[1] != 2*time.Second {
		t.Errorf("fire times = %v, want clock at each deadline", firedAt)
	}
	if got := c.Now().Sub(start); got != 2500*time.Millisecond {
		t.Errorf("Now() = +%v, want +2.5s", got)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", c.Pending())
	}
}

func TestFakeClockCancel(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))
	fired := false
	h := c.Schedule(time.Second, func() { fired = true })

	if !h.Cancel() {
		t.Fatal("Cancel() = false")
	}
	c.Advance(2 * time.Second)

	if fired {
		t.Error("canceled fake timer fired")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestFakeClockZeroDelayFiresOnAdvanceZero(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))
	fired := false
	c.Schedule(0, func() { fired = true })

	if fired {
		t.Fatal("fired before Advance")
	}
	c.Advance(0)
	if !fired {
		t.Error("zero-delay timer did not fire on Advance(0)")
	}
}

func TestFakeClockCallbackMaySchedule(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))
	var second bool
	c.Schedule(time.Second, func() {
		c.Schedule(time.Second, func() { second = true })
	})

	c.Advance(3 * time.Second)
	if !second {
		t.Error("timer scheduled from a callback did not fire within the same Advance")
	}
}

func TestFakeClockSetNeverGoesBack(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewFakeClock(start)
	c.Set(start.Add(-time.Second))
	if !c.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", c.Now(), start)
	}
}
