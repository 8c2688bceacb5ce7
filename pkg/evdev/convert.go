//go:build linux

package evdev

import (
	"time"

	goevdev "github.com/holoplot/go-evdev"

	"github.com/tempohold/tempohold-go/pkg/button"
)

// Key event values.
const (
	valueUp     int32 = 0
	valueDown   int32 = 1
	valueRepeat int32 = 2
)

// MaxVirtualButtons is the number of BTN_TRIGGER_HAPPY codes.
const MaxVirtualButtons = 40

// keyIndex numbers key codes from 1.
func keyIndex(codes []goevdev.EvCode) map[goevdev.EvCode]int {
	idx := make(map[goevdev.EvCode]int, len(codes))
	for i, c := range codes {
		if _, dup := idx[c]; !dup {
			idx[c] = i + 1
		}
	}
	return idx
}

// toEvent converts a raw event. It returns false for anything that is not
// a press or release of a known key.
func toEvent(device string, index map[goevdev.EvCode]int, ev *goevdev.InputEvent, now time.Time) (button.Event, bool) {
	if ev == nil || ev.Type != goevdev.EV_KEY {
		return button.Event{}, false
	}
	if ev.Value != valueDown && ev.Value != valueUp {
		return button.Event{}, false
	}
	i, ok := index[ev.Code]
	if !ok {
		return button.Event{}, false
	}
	return button.Event{
		Ref:     button.Ref{Device: device, Index: i},
		Pressed: ev.Value == valueDown,
		Time:    now,
	}, true
}

// outputCodes returns the key codes of an n-button virtual device.
func outputCodes(n int) []goevdev.EvCode {
	codes := make([]goevdev.EvCode, n)
	for i := range codes {
		codes[i] = goevdev.BTN_TRIGGER_HAPPY1 + goevdev.EvCode(i)
	}
	return codes
}
