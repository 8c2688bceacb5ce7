// Package button defines the value types shared between the hold engine and
// the host that owns the buttons.
//
// A button is an addressable boolean, either physical (an input delivered by
// the host) or virtual (an output the host exposes to other programs). The
// engine never enumerates devices; it only holds resolved Ref values and
// talks to the host through two small interfaces:
//
//   - OutputSink sets a virtual button pressed or released.
//   - InputQuery reads the current state of a physical or virtual button.
//
// # Addressing
//
// A Ref names a button by device ID and 1-based index. Its text form is
// "device:index", for example "stick:3" or "vjoy1:12".
package button
