package stagger

import (
	"errors"
	"fmt"
	"time"
)

// State is the output of a node: whether it is effectively active and how
// long the consumer should wait before applying the change.
type State struct {
	Value bool
	Delay time.Duration
}

// String formats the state as "{true 200ms}".
func (s State) String() string {
	return fmt.Sprintf("{%v %v}", s.Value, s.Delay)
}

var (
	// ErrInvalidDelay reports a delay that is negative, not a number, or has
	// the wrong number of components.
	ErrInvalidDelay = errors.New("stagger: invalid delay")

	// ErrInvalidConfig reports any other invalid node configuration.
	ErrInvalidConfig = errors.New("stagger: invalid config")
)

// ConfigError describes a rejected configuration value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
	Err    error // ErrInvalidDelay or ErrInvalidConfig
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("stagger: %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
