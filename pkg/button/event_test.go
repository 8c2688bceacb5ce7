package button

import "testing"

func TestEventString(t *testing.T) {
	ev := Event{Ref: Ref{Device: "stick", Index: 2}, Pressed: true}
	if got := ev.String(); got != "stick:2 down" {
		t.Errorf("String() = %q", got)
	}
	ev.Pressed = false
	if got := ev.String(); got != "stick:2 up" {
		t.Errorf("String() = %q", got)
	}
}

func TestSinksFanOut(t *testing.T) {
	var a, b []bool
	sinks := Sinks{
		OutputFunc(func(ref Ref, pressed bool) { a = append(a, pressed) }),
		OutputFunc(func(ref Ref, pressed bool) { b = append(b, pressed) }),
	}

	sinks.Set(Ref{Device: "vjoy1", Index: 1}, true)
	sinks.Set(Ref{Device: "vjoy1", Index: 1}, false)

	if len(a) != 2 || len(b) != 2 || !a[0] || b[1] {
		t.Errorf("a = %v, b = %v", a, b)
	}
}
