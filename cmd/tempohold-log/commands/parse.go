package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/tempohold/tempohold-go/pkg/log"
)

// ParseKindFlag parses a kind name given on the command line.
func ParseKindFlag(s string) (log.Kind, error) {
	switch strings.ToLower(s) {
	case "input":
		return log.KindInput, nil
	case "decision":
		return log.KindDecision, nil
	case "timer":
		return log.KindTimer, nil
	case "output":
		return log.KindOutput, nil
	case "diagnostic", "diag":
		return log.KindDiagnostic, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (valid: input, decision, timer, output, diagnostic)", s)
	}
}

func parseTimeFlag(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", name, err)
	}
	return &t, nil
}

func shortenInstanceID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

// summary returns a one-line description of the event payload.
func summary(event log.Event) string {
	switch {
	case event.Input != nil:
		s := event.Input.Action.String()
		if event.Input.Button != "" {
			s += " " + event.Input.Button
		}
		if event.Input.HeldFor != nil {
			s += fmt.Sprintf(" held=%s", *event.Input.HeldFor)
		}
		if event.Input.Ignored {
			s += " (ignored)"
		}
		return s
	case event.Decision != nil:
		s := event.Decision.Outcome
		if event.Decision.Profile != 0 {
			s += fmt.Sprintf(" profile=%d", event.Decision.Profile)
		}
		if event.Decision.Remaining != nil {
			s += fmt.Sprintf(" remaining=%s", *event.Decision.Remaining)
		}
		if event.Decision.Reason != "" {
			s += fmt.Sprintf(" reason=%q", event.Decision.Reason)
		}
		return s
	case event.Timer != nil:
		s := fmt.Sprintf("%s seq=%d", event.Timer.Action, event.Timer.Seq)
		if event.Timer.Delay != nil {
			s += fmt.Sprintf(" delay=%s", *event.Timer.Delay)
		}
		return s
	case event.Output != nil:
		state := "OFF"
		if event.Output.Pressed {
			state = "ON"
		}
		return event.Output.Button + " " + state
	case event.Diagnostic != nil:
		s := event.Diagnostic.Severity
		if event.Diagnostic.Field != "" {
			s += " " + event.Diagnostic.Field
		}
		return s + ": " + event.Diagnostic.Message
	default:
		return ""
	}
}
