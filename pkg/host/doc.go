// Package host provides an in-memory model of the devices a mapping runs
// against: physical input devices and virtual output devices, each with a
// fixed number of buttons.
//
// Board resolves button references during configuration, implements
// button.OutputSink for virtual buttons and button.InputQuery for both
// kinds, and notifies subscribers of state changes. The interactive
// simulator and the evdev bridge both drive a Board.
package host
