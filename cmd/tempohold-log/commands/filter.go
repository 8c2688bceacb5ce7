package commands

import (
	"fmt"
	"io"

	"github.com/tempohold/tempohold-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output     string
	MappingID  string
	InstanceID string
	Kind       string
	TimeStart  string
	TimeEnd    string
}

// RunFilter filters the trace file and writes matching events to a new file.
// It returns the number of events written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	if opts.Output == "" {
		return 0, fmt.Errorf("output file required")
	}

	filter := log.Filter{
		MappingID:  opts.MappingID,
		InstanceID: opts.InstanceID,
	}

	var err error
	if filter.TimeStart, err = parseTimeFlag("time-start", opts.TimeStart); err != nil {
		return 0, err
	}
	if filter.TimeEnd, err = parseTimeFlag("time-end", opts.TimeEnd); err != nil {
		return 0, err
	}

	if opts.Kind != "" {
		k, err := ParseKindFlag(opts.Kind)
		if err != nil {
			return 0, err
		}
		filter.Kind = &k
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Close()
			return logger.Written(), fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
	}

	written := logger.Written()
	if err := logger.Close(); err != nil {
		return written, fmt.Errorf("failed to close output file: %w", err)
	}
	return written, nil
}
