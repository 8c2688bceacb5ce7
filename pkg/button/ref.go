package button

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Ref errors.
var (
	ErrInvalidRef    = errors.New("invalid button reference")
	ErrInvalidSource = errors.New("invalid button source")
)

// Source tells whether a button belongs to a physical or a virtual device.
type Source uint8

const (
	// SourcePhysical is a button on an input device owned by the user.
	SourcePhysical Source = iota

	// SourceVirtual is a button on a virtual output device.
	SourceVirtual
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourcePhysical:
		return "physical"
	case SourceVirtual:
		return "virtual"
	default:
		return "unknown"
	}
}

// ParseSource parses a source name (case-insensitive).
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "physical", "phys", "joy":
		return SourcePhysical, nil
	case "virtual", "vjoy":
		return SourceVirtual, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be physical or virtual)", ErrInvalidSource, s)
	}
}

// Ref identifies a single button on a device. Index is 1-based.
// The zero Ref is invalid and reports false from IsValid.
type Ref struct {
	Device string
	Index  int
}

// IsValid reports whether the reference names a device and a positive index.
func (r Ref) IsValid() bool {
	return r.Device != "" && r.Index > 0
}

// String returns the "device:index" form.
func (r Ref) String() string {
	if !r.IsValid() {
		return "<none>"
	}
	return r.Device + ":" + strconv.Itoa(r.Index)
}

// ParseRef parses the "device:index" form.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return Ref{}, fmt.Errorf("%w: %q (want device:index)", ErrInvalidRef, s)
	}
	idx, err := strconv.Atoi(s[i+1:])
	if err != nil || idx <= 0 {
		return Ref{}, fmt.Errorf("%w: %q (index must be a positive integer)", ErrInvalidRef, s)
	}
	return Ref{Device: s[:i], Index: idx}, nil
}

// GuardRef is a button whose state gates a hold profile.
type GuardRef struct {
	Source Source
	Button Ref
}

// String returns "source device:index".
func (g GuardRef) String() string {
	return g.Source.String() + " " + g.Button.String()
}
