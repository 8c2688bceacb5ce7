package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering trace events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// MappingID filters by exact mapping ID match.
	MappingID string

	// InstanceID filters by instance ID prefix, so the short form shown
	// by the viewer can be used.
	InstanceID string

	// Kind filters by event kind.
	Kind *Kind

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time
}

// Matches returns true if the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.MappingID != "" && event.MappingID != f.MappingID {
		return false
	}
	if f.InstanceID != "" {
		if len(event.InstanceID) < len(f.InstanceID) || event.InstanceID[:len(f.InstanceID)] != f.InstanceID {
			return false
		}
	}
	if f.Kind != nil && event.Kind != *f.Kind {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// ErrTruncated reports a trace whose final record was cut short, which is
// what a tempohold process killed mid-write leaves behind. Every complete
// record before it has already been returned.
var ErrTruncated = errors.New("trace truncated")

// Reader reads trace events from a CBOR-encoded file.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
	records int
}

// NewReader creates a Reader that reads all events from the specified trace file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads events matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next event that matches the filter.
// Returns io.EOF when no more events are available.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			switch {
			case err == io.EOF:
				return Event{}, io.EOF
			case errors.Is(err, io.ErrUnexpectedEOF):
				return Event{}, fmt.Errorf("%w after %d records", ErrTruncated, r.records)
			}
			return Event{}, fmt.Errorf("record %d: %w", r.records+1, err)
		}
		r.records++

		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Records returns the number of records decoded so far, including those
// the filter skipped.
func (r *Reader) Records() int {
	return r.records
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
