package log

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, MappingID: "gear", InstanceID: "aaaa1111-0000", Kind: KindInput, Input: &InputEvent{Action: InputPress}},
		{Timestamp: base.Add(time.Second), MappingID: "gear", InstanceID: "aaaa1111-0000", Kind: KindOutput, Output: &OutputEvent{Button: "v:1", Pressed: true}},
		{Timestamp: base.Add(2 * time.Second), MappingID: "flaps", InstanceID: "bbbb2222-0000", Kind: KindInput, Input: &InputEvent{Action: InputRelease}},
		{Timestamp: base.Add(3 * time.Second), MappingID: "flaps", InstanceID: "bbbb2222-0000", Kind: KindDecision, Decision: &DecisionEvent{Outcome: "RELEASED"}},
	}
	path := createTestLogFile(t, events)

	kindInput := KindInput
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "all", filter: Filter{}, want: 4},
		{name: "mapping", filter: Filter{MappingID: "gear"}, want: 2},
		{name: "instance prefix", filter: Filter{InstanceID: "bbbb2222"}, want: 2},
		{name: "kind", filter: Filter{Kind: &kindInput}, want: 2},
		{name: "time window", filter: Filter{TimeStart: &start, TimeEnd: &end}, want: 2},
		{name: "combined", filter: Filter{MappingID: "flaps", Kind: &kindInput}, want: 1},
		{name: "none", filter: Filter{MappingID: "trim"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			got, err := reader.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.tlog")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderTruncatedTail(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, MappingID: "gear", Kind: KindInput, Input: &InputEvent{Action: InputPress}},
		{Timestamp: base.Add(time.Second), MappingID: "gear", Kind: KindInput, Input: &InputEvent{Action: InputRelease}},
	}
	path := createTestLogFile(t, events)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if err := os.Truncate(path, info.Size()-3); err != nil {
		t.Fatalf("Truncate failed: %v", err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	first, err := reader.Next()
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	if first.Input.Action != InputPress {
		t.Errorf("first record = %+v", first.Input)
	}

	_, err = reader.Next()
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("second record error = %v, want ErrTruncated", err)
	}
	if reader.Records() != 1 {
		t.Errorf("Records() = %d, want 1", reader.Records())
	}
}

func TestReaderRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.tlog")
	if err := os.WriteFile(path, []byte{0xa1, 0x02, 0x64, 'g', 'e', 'a', 'r'}, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err == nil || err == io.EOF {
		t.Errorf("Next() error = %v, want a decode error", err)
	}
}
