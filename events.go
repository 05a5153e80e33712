package stagger

import "time"

// EventSink is the interface for optional downstream integration. When set
// on a Tree, every state a node emits is forwarded to the sink.
type EventSink interface {
	EmitState(event StateEvent)
}

// StateEvent carries one emitted state together with the emitting node.
type StateEvent struct {
	NodeID uint32        `json:"node_id" cbor:"1,keyasint"`
	Name   string        `json:"name,omitempty" cbor:"2,keyasint,omitempty"`
	Value  bool          `json:"value" cbor:"3,keyasint"`
	Delay  time.Duration `json:"delay_ns" cbor:"4,keyasint"`
	Time   time.Time     `json:"time" cbor:"5,keyasint"`
}

// State returns the emitted state.
func (e StateEvent) State() State {
	return State{Value: e.Value, Delay: e.Delay}
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(StateEvent)

// EmitState calls f(event).
func (f SinkFunc) EmitState(event StateEvent) {
	f(event)
}
