// Package evdev connects mappings to Linux input devices.
//
// A Source reads key events from /dev/input/eventN and turns presses and
// releases into button.Events; autorepeat is dropped. Buttons are numbered
// from 1 in the order of the device's key codes.
//
// A VirtualOutput creates a uinput device exposing joystick buttons
// (BTN_TRIGGER_HAPPY1 upwards) and implements button.OutputSink.
//
// Everything except this file is Linux only.
package evdev
