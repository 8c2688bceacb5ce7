// Package config loads tempo-hold configuration from YAML and resolves it
// against a host.Board into mapping specs.
//
// Loading fails only on malformed files. Defects found while resolving
// (unknown buttons, out-of-range numbers) are reported as Diagnostics and
// the affected feature falls back to a safe default:
//
//   - an unresolved input or output disables the mapping
//   - an unresolved modifier makes the profile ungated
//   - an unresolved cancel button disables cancel for that mapping
//   - an out-of-range number is clamped into range
package config
