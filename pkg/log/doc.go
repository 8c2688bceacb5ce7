// Package log provides structured trace logging for hold mappings.
//
// This package defines the Logger interface and Event types for capturing
// every step a hold engine takes: the inputs it receives, the decision made
// on release, the deferred release timers it arms and cancels, and the
// output states it drives. It is separate from operational logging (slog):
// a trace is a complete machine-readable record for debugging a mapping's
// timing after the fact.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.TraceLogger = log.NewSlogAdapter(slog.Default())
//
//	// For analysis: write to binary file
//	cfg.TraceLogger, _ = log.NewFileLogger("/var/log/tempohold/session.tlog")
//
//	// Both: use MultiLogger
//	cfg.TraceLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Kinds
//
//   - Input: a press, release or cancel delivered to an engine (InputEvent)
//   - Decision: how a release was resolved (DecisionEvent)
//   - Timer: a deferred release was scheduled, canceled, fired or ignored as stale (TimerEvent)
//   - Output: the virtual button was set (OutputEvent)
//   - Diagnostic: a configuration defect found while building a mapping (DiagnosticEvent)
//
// # File Format
//
// Trace files use CBOR encoding with the .tlog extension. The tempohold-log
// CLI provides viewing, filtering, statistics and export.
package log
