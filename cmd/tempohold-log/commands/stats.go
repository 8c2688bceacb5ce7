package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/tempohold/tempohold-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents        int
	EventsByKind       map[log.Kind]int
	DecisionsByOutcome map[string]int
	StaleFirings       int
	Diagnostics        int
	Mappings           map[string]*MappingStats
	TimeRange          struct {
		Start time.Time
		End   time.Time
	}
}

// MappingStats holds statistics for a single mapping.
type MappingStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Instances map[string]struct{}
	Presses   int
	Holds     int
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

// CollectStats reads the whole trace file and aggregates it.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind:       make(map[log.Kind]int),
		DecisionsByOutcome: make(map[string]int),
		Mappings:           make(map[string]*MappingStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		switch {
		case event.Decision != nil:
			stats.DecisionsByOutcome[event.Decision.Outcome]++
		case event.Timer != nil && event.Timer.Action == log.TimerStale:
			stats.StaleFirings++
		case event.Diagnostic != nil:
			stats.Diagnostics++
		}

		if event.MappingID == "" {
			continue
		}
		m, ok := stats.Mappings[event.MappingID]
		if !ok {
			m = &MappingStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
				Instances: make(map[string]struct{}),
			}
			stats.Mappings[event.MappingID] = m
		}
		m.Events++
		if event.Timestamp.After(m.LastSeen) {
			m.LastSeen = event.Timestamp
		}
		if event.InstanceID != "" {
			m.Instances[event.InstanceID] = struct{}{}
		}
		if event.Input != nil && event.Input.Action == log.InputPress {
			m.Presses++
		}
		if event.Decision != nil && event.Decision.Outcome == "HOLD_SCHEDULED" {
			m.Holds++
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Tempo Hold Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Kind:")
	for _, kind := range []log.Kind{log.KindInput, log.KindDecision, log.KindTimer, log.KindOutput, log.KindDiagnostic} {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.DecisionsByOutcome) > 0 {
		fmt.Fprintln(w, "Decisions by Outcome:")
		for _, outcome := range []string{"RELEASED", "HOLD_SCHEDULED", "HOLD_ELAPSED"} {
			if count := stats.DecisionsByOutcome[outcome]; count > 0 {
				fmt.Fprintf(w, "  %-16s %d\n", outcome+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Mappings: %d\n", len(stats.Mappings))
	if len(stats.Mappings) > 0 {
		ids := make([]string, 0, len(stats.Mappings))
		for id := range stats.Mappings {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Fprintln(w)
		for _, id := range ids {
			m := stats.Mappings[id]
			fmt.Fprintf(w, "  [%s] %d events, %d presses, %d holds\n", id, m.Events, m.Presses, m.Holds)
			if len(m.Instances) > 1 {
				fmt.Fprintf(w, "           Instances: %d\n", len(m.Instances))
			}
		}
	}

	if stats.StaleFirings > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Stale Timer Firings: %d\n", stats.StaleFirings)
	}
	if stats.Diagnostics > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Diagnostics: %d\n", stats.Diagnostics)
	}
}
