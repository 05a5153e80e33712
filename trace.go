package stagger

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// traceEncMode is the CBOR encoder mode for traces. Canonical key order and
// definite lengths keep the output byte-stable across runs.
var traceEncMode cbor.EncMode

// traceDecMode is the CBOR decoder mode for traces.
var traceDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	traceEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	traceDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR decoder mode: %v", err))
	}
}

// Recorder is an EventSink that keeps every event in arrival order.
type Recorder struct {
	events []StateEvent
}

// EmitState appends event.
func (r *Recorder) EmitState(event StateEvent) {
	r.events = append(r.events, event)
}

// Events returns the recorded events. The returned slice MUST NOT be mutated.
func (r *Recorder) Events() []StateEvent {
	return r.events
}

// Last returns the last n recorded states, oldest first.
func (r *Recorder) Last(n int) []State {
	if n > len(r.events) {
		n = len(r.events)
	}
	out := make([]State, 0, n)
	for _, e := range r.events[len(r.events)-n:] {
		out = append(out, e.State())
	}
	return out
}

// StatesOf returns every state emitted by nodes named name.
func (r *Recorder) StatesOf(name string) []State {
	var out []State
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e.State())
		}
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.events = r.events[:0]
}

// WriteText writes one human-readable line per event.
func (r *Recorder) WriteText(w io.Writer) error {
	for _, e := range r.events {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("#%d", e.NodeID)
		}
		if _, err := fmt.Fprintf(w, "%s  %-16s value=%-5v delay=%v\n",
			e.Time.Format("15:04:05.000"), name, e.Value, e.Delay); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the events as JSON lines.
func (r *Recorder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, e := range r.events {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// WriteCBOR writes the events as a single CBOR array.
func (r *Recorder) WriteCBOR(w io.Writer) error {
	events := r.events
	if events == nil {
		events = []StateEvent{}
	}
	return traceEncMode.NewEncoder(w).Encode(events)
}

// ReadCBOR decodes a trace written by WriteCBOR.
func ReadCBOR(rd io.Reader) ([]StateEvent, error) {
	var events []StateEvent
	if err := traceDecMode.NewDecoder(rd).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return events, nil
}
