package log

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// EventTag is the CBOR tag number wrapping every trace record ("thld").
// A .tlog file is a plain sequence of tagged records, so a foreign CBOR
// stream is rejected on the first record instead of decoding into an
// empty Event.
const EventTag uint64 = 0x74686c64

var (
	traceEncMode cbor.EncMode
	traceDecMode cbor.DecMode
)

func init() {
	tags := cbor.NewTagSet()
	err := tags.Add(
		cbor.TagOptions{EncTag: cbor.EncTagRequired, DecTag: cbor.DecTagRequired},
		reflect.TypeOf(Event{}),
		EventTag,
	)
	if err != nil {
		panic(fmt.Sprintf("failed to register trace event tag: %v", err))
	}

	// Canonical, definite-length records; times keep nanoseconds so hold
	// arithmetic can be replayed from a trace.
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	traceEncMode, err = encOpts.EncModeWithTags(tags)
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	traceDecMode, err = decOpts.DecModeWithTags(tags)
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event as one tagged trace record.
func EncodeEvent(event Event) ([]byte, error) {
	return traceEncMode.Marshal(event)
}

// DecodeEvent decodes one tagged trace record.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := traceDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns an encoder that writes tagged trace records to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return traceEncMode.NewEncoder(w)
}

// NewDecoder returns a decoder that reads tagged trace records from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
