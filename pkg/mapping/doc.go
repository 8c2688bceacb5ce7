// Package mapping binds physical inputs to tempo-hold engines.
//
// A Mapping owns one hold.Engine and knows its physical input, its virtual
// output, an optional cancel input and an optional mode. A Router holds
// many mappings and routes button events to them: presses and releases of
// a mapping's input go to its engine, presses of a cancel input go to every
// mapping that names it.
//
// Mappings that belong to a mode only receive presses while that mode is
// current. A release is always delivered to the mapping that saw the
// matching press, so switching modes never leaves an output stuck.
package mapping
