package commands

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tempohold/tempohold-go/pkg/log"
)

// RunExport exports the trace file to the specified format.
// The sqlite format needs an output path; the others default to stdout.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if format == "sqlite" {
		if output == "" {
			return fmt.Errorf("sqlite export requires an output file (-o)")
		}
		return exportSQLite(reader, output)
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv, sqlite)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{"timestamp", "mapping_id", "instance_id", "kind", "outcome", "profile", "remaining_ms", "details"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		outcome, profile, remaining := decisionColumns(event)
		row := []string{
			formatTimestamp(event.Timestamp),
			event.MappingID,
			event.InstanceID,
			event.Kind.String(),
			outcome,
			profile,
			remaining,
			summary(event),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func decisionColumns(event log.Event) (outcome, profile, remaining string) {
	if event.Decision == nil {
		return "", "", ""
	}
	outcome = event.Decision.Outcome
	if event.Decision.Profile != 0 {
		profile = strconv.Itoa(int(event.Decision.Profile))
	}
	if event.Decision.Remaining != nil {
		remaining = strconv.FormatInt(event.Decision.Remaining.Milliseconds(), 10)
	}
	return outcome, profile, remaining
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	mapping_id TEXT,
	instance_id TEXT,
	kind TEXT NOT NULL,
	outcome TEXT,
	profile INTEGER,
	remaining_ns INTEGER,
	details TEXT,
	payload_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_events_mapping_id ON events(mapping_id);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
`

// exportSQLite writes all events into an events table in the database at
// output, creating the schema if needed. Rows are appended in one transaction.
func exportSQLite(reader *log.Reader, output string) error {
	db, err := sql.Open("sqlite3", output)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		return fmt.Errorf("failed to configure database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO events (timestamp, mapping_id, instance_id, kind, outcome, profile, remaining_ns, details, payload_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}

		var outcome, profile, remaining any
		if event.Decision != nil {
			outcome = event.Decision.Outcome
			if event.Decision.Profile != 0 {
				profile = int(event.Decision.Profile)
			}
			if event.Decision.Remaining != nil {
				remaining = int64(*event.Decision.Remaining)
			}
		}

		if _, err := stmt.Exec(
			event.Timestamp.UTC(),
			event.MappingID,
			event.InstanceID,
			event.Kind.String(),
			outcome,
			profile,
			remaining,
			summary(event),
			string(payload),
		); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
