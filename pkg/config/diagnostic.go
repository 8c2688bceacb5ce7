package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tempohold/tempohold-go/pkg/log"
)

// Severity grades a diagnostic.
type Severity uint8

const (
	// SeverityWarning means a value was adjusted or a feature degraded.
	SeverityWarning Severity = iota

	// SeverityError means a mapping was disabled.
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic reports a configuration defect found while resolving.
type Diagnostic struct {
	Severity Severity
	Mapping  string
	Field    string
	Message  string
}

// String returns "SEVERITY mapping.field: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s.%s: %s", d.Severity, d.Mapping, d.Field, d.Message)
}

// TraceEvent converts the diagnostic into a trace event.
func (d Diagnostic) TraceEvent(now time.Time) log.Event {
	return log.Event{
		Timestamp: now,
		MappingID: d.Mapping,
		Kind:      log.KindDiagnostic,
		Diagnostic: &log.DiagnosticEvent{
			Severity: d.Severity.String(),
			Field:    d.Field,
			Message:  d.Message,
		},
	}
}

// Report logs every diagnostic once and forwards it to the trace logger.
// Either logger may be nil.
func Report(diags []Diagnostic, logger *slog.Logger, trace log.Logger, now time.Time) {
	for _, d := range diags {
		if logger != nil {
			level := slog.LevelWarn
			if d.Severity == SeverityError {
				level = slog.LevelError
			}
			logger.Log(context.Background(), level, "configuration", "mapping", d.Mapping, "field", d.Field, "message", d.Message)
		}
		if trace != nil {
			trace.Log(d.TraceEvent(now))
		}
	}
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
