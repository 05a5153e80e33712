package stagger

import (
	"errors"
	"math"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDelayFromMillis(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Delay
	}{
		{"uniform", []float64{100}, Uniform(100 * time.Millisecond)},
		{"split", []float64{200, 300}, Split(200*time.Millisecond, 300*time.Millisecond)},
		{"zero", []float64{0}, Delay{}},
		{"fractional", []float64{12.5}, Uniform(12500 * time.Microsecond)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DelayFromMillis(tt.values...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DelayFromMillis(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestDelayFromMillisRejects(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"nan", []float64{math.NaN()}},
		{"inf", []float64{math.Inf(1)}},
		{"negative", []float64{-1}},
		{"negative after", []float64{100, -5}},
		{"too large", []float64{1e300}},
		{"too large after", []float64{100, 1e13}},
		{"empty", nil},
		{"three", []float64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DelayFromMillis(tt.values...)
			if !errors.Is(err, ErrInvalidDelay) {
				t.Fatalf("err = %v, want ErrInvalidDelay", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %T, want *ConfigError", err)
			}
			if cfgErr.Field == "" {
				t.Error("ConfigError.Field should be set")
			}
		})
	}
}

func TestDelayValidate(t *testing.T) {
	if err := DefaultDelay.Validate(); err != nil {
		t.Errorf("DefaultDelay invalid: %v", err)
	}
	if err := (Delay{Before: -1}).Validate(); !errors.Is(err, ErrInvalidDelay) {
		t.Errorf("negative before: err = %v", err)
	}
	if err := (Delay{After: -1}).Validate(); !errors.Is(err, ErrInvalidDelay) {
		t.Errorf("negative after: err = %v", err)
	}
}

func TestDelayMillis(t *testing.T) {
	before, after := Split(200*time.Millisecond, 300*time.Millisecond).Millis()
	if before != 200 || after != 300 {
		t.Errorf("Millis = (%v, %v), want (200, 300)", before, after)
	}
}

func TestDelayUnmarshalYAML(t *testing.T) {
	var doc struct {
		A Delay `yaml:"a"`
		B Delay `yaml:"b"`
	}
	if err := yaml.Unmarshal([]byte("a: 300\nb: [200, 300]\n"), &doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.A != Uniform(300*time.Millisecond) {
		t.Errorf("a = %+v", doc.A)
	}
	if doc.B != Split(200*time.Millisecond, 300*time.Millisecond) {
		t.Errorf("b = %+v", doc.B)
	}
}

func TestDelayUnmarshalYAMLRejects(t *testing.T) {
	inputs := []string{
		"a: fast\n",
		"a: -100\n",
		"a: .nan\n",
		"a: 1e300\n",
		"a: [100, 1e300]\n",
		"a: [1, 2, 3]\n",
		"a: {before: 1}\n",
	}
	for _, in := range inputs {
		var doc struct {
			A Delay `yaml:"a"`
		}
		err := yaml.Unmarshal([]byte(in), &doc)
		if !errors.Is(err, ErrInvalidDelay) {
			t.Errorf("%q: err = %v, want ErrInvalidDelay", in, err)
		}
	}
}

func TestStateString(t *testing.T) {
	s := State{Value: true, Delay: 200 * time.Millisecond}
	if got := s.String(); got != "{true 200ms}" {
		t.Errorf("String() = %q", got)
	}
}
