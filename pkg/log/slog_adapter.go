package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to watch an engine in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("mapping", event.MappingID),
		slog.String("instance", shortID(event.InstanceID)),
		slog.String("kind", event.Kind.String()),
	}

	if event.Description != "" {
		attrs = append(attrs, slog.String("description", event.Description))
	}

	switch {
	case event.Input != nil:
		attrs = append(attrs, slog.String("action", event.Input.Action.String()))
		if event.Input.Button != "" {
			attrs = append(attrs, slog.String("button", event.Input.Button))
		}
		if event.Input.HeldFor != nil {
			attrs = append(attrs, slog.Duration("held_for", *event.Input.HeldFor))
		}
		if event.Input.Ignored {
			attrs = append(attrs, slog.Bool("ignored", true))
		}
	case event.Decision != nil:
		attrs = append(attrs, slog.String("outcome", event.Decision.Outcome))
		if event.Decision.Profile != 0 {
			attrs = append(attrs, slog.Int("profile", int(event.Decision.Profile)))
		}
		if event.Decision.Remaining != nil {
			attrs = append(attrs, slog.Duration("remaining", *event.Decision.Remaining))
		}
		if event.Decision.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Decision.Reason))
		}
	case event.Timer != nil:
		attrs = append(attrs,
			slog.String("timer", event.Timer.Action.String()),
			slog.Uint64("seq", event.Timer.Seq),
		)
		if event.Timer.Delay != nil {
			attrs = append(attrs, slog.Duration("delay", *event.Timer.Delay))
		}
	case event.Output != nil:
		attrs = append(attrs,
			slog.String("button", event.Output.Button),
			slog.Bool("pressed", event.Output.Pressed),
		)
	case event.Diagnostic != nil:
		attrs = append(attrs,
			slog.String("severity", event.Diagnostic.Severity),
			slog.String("field", event.Diagnostic.Field),
			slog.String("message", event.Diagnostic.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}

// shortID returns the first 8 characters of an instance ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
