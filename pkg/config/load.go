package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse parses a configuration from YAML bytes. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load loads a configuration from a file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	f, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return f, nil
}

// validate checks structural problems that make the file unusable.
func (f *File) validate() error {
	seen := make(map[string]bool)
	for i, d := range append(append([]DeviceConfig{}, f.Devices.Physical...), f.Devices.Virtual...) {
		if d.ID == "" {
			return &LoadError{Message: fmt.Sprintf("device %d: id is required", i)}
		}
		if seen[d.ID] {
			return &LoadError{Message: fmt.Sprintf("device %q declared twice", d.ID)}
		}
		seen[d.ID] = true
	}

	ids := make(map[string]bool)
	for i, m := range f.Mappings {
		if m.ID == "" {
			return &LoadError{Message: fmt.Sprintf("mapping %d: id is required", i)}
		}
		if ids[m.ID] {
			return &LoadError{Message: fmt.Sprintf("mapping %q declared twice", m.ID)}
		}
		ids[m.ID] = true
	}
	return nil
}

// Marshal renders a configuration as YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
