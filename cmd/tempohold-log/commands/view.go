// Package commands implements the tempohold-log CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/tempohold/tempohold-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	MappingID  string
	InstanceID string
	Kind       *log.Kind
}

// RunView reads the trace file and writes a human-readable line per event to w.
func RunView(path string, filter ViewFilter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		MappingID:  filter.MappingID,
		InstanceID: filter.InstanceID,
		Kind:       filter.Kind,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a single line: timestamp [inst:id] mapping KIND details.
func formatEvent(w io.Writer, event log.Event) {
	mapping := event.MappingID
	if mapping == "" {
		mapping = "-"
	}
	fmt.Fprintf(w, "%s [inst:%s] %s %-10s %s\n",
		formatTimestamp(event.Timestamp),
		shortenInstanceID(event.InstanceID),
		mapping,
		event.Kind,
		summary(event))
}
