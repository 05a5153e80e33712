package stagger

import (
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// Delay is a node's own stagger contribution. Before is requested when the
// node activates, ahead of its descendants. After is reserved once the
// descendants have been notified and pushes back the next sibling.
type Delay struct {
	Before time.Duration
	After  time.Duration
}

// DefaultDelay is the delay of a node that does not configure one.
var DefaultDelay = Uniform(100 * time.Millisecond)

// Uniform returns a Delay that uses d on both sides of the children.
func Uniform(d time.Duration) Delay {
	return Delay{Before: d, After: d}
}

// Split returns a Delay with distinct before and after portions.
func Split(before, after time.Duration) Delay {
	return Delay{Before: before, After: after}
}

// Validate rejects negative portions.
func (d Delay) Validate() error {
	if d.Before < 0 {
		return &ConfigError{Field: "delay.before", Value: d.Before, Reason: "must not be negative", Err: ErrInvalidDelay}
	}
	if d.After < 0 {
		return &ConfigError{Field: "delay.after", Value: d.After, Reason: "must not be negative", Err: ErrInvalidDelay}
	}
	return nil
}

// maxDelayMillis is the largest millisecond value a time.Duration can hold.
const maxDelayMillis = float64(math.MaxInt64) / float64(time.Millisecond)

// DelayFromMillis builds a Delay from one (uniform) or two (before, after)
// millisecond values. NaN, infinite, negative and out of range values are
// rejected.
func DelayFromMillis(values ...float64) (Delay, error) {
	if len(values) != 1 && len(values) != 2 {
		return Delay{}, &ConfigError{Field: "delay", Value: values, Reason: "want 1 or 2 values", Err: ErrInvalidDelay}
	}
	durs := make([]time.Duration, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Delay{}, &ConfigError{Field: "delay", Value: v, Reason: "not a finite number", Err: ErrInvalidDelay}
		}
		if v < 0 {
			return Delay{}, &ConfigError{Field: "delay", Value: v, Reason: "must not be negative", Err: ErrInvalidDelay}
		}
		if v >= maxDelayMillis {
			return Delay{}, &ConfigError{Field: "delay", Value: v, Reason: "out of range", Err: ErrInvalidDelay}
		}
		durs[i] = time.Duration(v * float64(time.Millisecond))
	}
	if len(durs) == 1 {
		return Uniform(durs[0]), nil
	}
	return Split(durs[0], durs[1]), nil
}

// Millis returns the before and after portions in milliseconds.
func (d Delay) Millis() (before, after float64) {
	return durationMillis(d.Before), durationMillis(d.After)
}

// UnmarshalYAML accepts either a number of milliseconds or a
// [before, after] pair.
func (d *Delay) UnmarshalYAML(value *yaml.Node) error {
	var values []float64
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return &ConfigError{Field: "delay", Value: value.Value, Reason: "not a number", Err: ErrInvalidDelay}
		}
		values = []float64{v}
	case yaml.SequenceNode:
		if err := value.Decode(&values); err != nil {
			return &ConfigError{Field: "delay", Value: value.Value, Reason: "not a list of numbers", Err: ErrInvalidDelay}
		}
	default:
		return &ConfigError{Field: "delay", Value: value.Value, Reason: "want a number or [before, after]", Err: ErrInvalidDelay}
	}
	parsed, err := DelayFromMillis(values...)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
