package stagger

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action string        `yaml:"action"`
	Label  string        `yaml:"label,omitempty"`
	Tree   []elementSpec `yaml:"tree,omitempty"`
	Name   string        `yaml:"name,omitempty"`
	Active *bool         `yaml:"active,omitempty"`
	Ms     float64       `yaml:"ms,omitempty"`
}

// elementSpec is the serialized form of an Element. Timings are referenced
// by name and resolved when the script runs.
type elementSpec struct {
	Key      string        `yaml:"key,omitempty"`
	Name     string        `yaml:"name,omitempty"`
	Delay    *Delay        `yaml:"delay,omitempty"`
	Active   *bool         `yaml:"active,omitempty"`
	Appear   *bool         `yaml:"appear,omitempty"`
	Timing   string        `yaml:"timing,omitempty"`
	Children []elementSpec `yaml:"children,omitempty"`
}

// scriptFile is the top-level YAML structure of a script. JSON scripts parse
// as well since JSON is a subset of YAML.
type scriptFile struct {
	Timings []string     `yaml:"timings"`
	Steps   []scriptStep `yaml:"steps"`
}

// Script replays a sequence of renders, activation changes and clock
// advances against a fresh Tree. Time only moves on "wait" steps, so the
// emitted delays are deterministic.
type Script struct {
	timings []string
	steps   []scriptStep
}

// LoadScript parses a YAML or JSON script.
//
//	timings: [main]
//	steps:
//	  - action: render
//	    tree:
//	      - {name: a, timing: main}
//	      - {name: b, timing: main, delay: [200, 300]}
//	  - action: wait
//	    ms: 500
//	  - action: set
//	    name: a
//	    active: false
func LoadScript(data []byte) (*Script, error) {
	var file scriptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}

	known := make(map[string]bool, len(file.Timings))
	for _, name := range file.Timings {
		if name == "" || known[name] {
			return nil, fmt.Errorf("parse script: timing name %q empty or duplicated", name)
		}
		known[name] = true
	}

	for i, st := range file.Steps {
		switch st.Action {
		case "render":
			if err := checkSpecTimings(st.Tree, known); err != nil {
				return nil, fmt.Errorf("parse script: step %d: %w", i, err)
			}
		case "set":
			if st.Name == "" || st.Active == nil {
				return nil, fmt.Errorf("parse script: step %d: set needs name and active", i)
			}
		case "wait":
			if st.Ms < 0 {
				return nil, fmt.Errorf("parse script: step %d: negative wait", i)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{timings: file.Timings, steps: file.Steps}, nil
}

func checkSpecTimings(specs []elementSpec, known map[string]bool) error {
	for _, s := range specs {
		if s.Timing != "" && !known[s.Timing] {
			return fmt.Errorf("element %q: unknown timing %q", s.Name, s.Timing)
		}
		if err := checkSpecTimings(s.Children, known); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of steps.
func (s *Script) Len() int {
	return len(s.steps)
}

// manualClock only moves when advanced.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

// scriptRun is the state of one Script.Run.
type scriptRun struct {
	clock   *manualClock
	tree    *Tree
	timings map[string]*Timing
	current []elementSpec
}

// Run executes every step against a new Tree, forwarding emitted states to
// sink (which may be nil). Each run starts from a fresh clock and fresh
// timings, so a Script can be run repeatedly.
func (s *Script) Run(sink EventSink) error {
	return s.run(sink, false)
}

// RunDebug is Run with the tree's debug output enabled.
func (s *Script) RunDebug(sink EventSink) error {
	return s.run(sink, true)
}

func (s *Script) run(sink EventSink, debug bool) error {
	r := &scriptRun{
		clock:   &manualClock{now: time.Unix(0, 0).UTC()},
		tree:    NewTree(),
		timings: make(map[string]*Timing, len(s.timings)+1),
	}
	for _, name := range s.timings {
		r.timings[name] = NewTimingWithClock(r.clock.Now)
	}
	r.tree.SetDefaultTiming(NewTimingWithClock(r.clock.Now))
	r.tree.SetClock(r.clock.Now)
	r.tree.SetEventSink(sink)
	if debug {
		r.tree.SetDebugMode(true)
		defer r.tree.SetDebugMode(false)
	}

	for i, st := range s.steps {
		if err := r.step(st); err != nil {
			if st.Label != "" {
				return fmt.Errorf("step %d (%s): %w", i, st.Label, err)
			}
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (r *scriptRun) step(st scriptStep) error {
	switch st.Action {
	case "render":
		r.current = cloneSpecs(st.Tree)
		return r.render()
	case "set":
		spec := findSpec(r.current, st.Name)
		if spec == nil {
			return fmt.Errorf("set: no element named %q", st.Name)
		}
		spec.Active = Ptr(*st.Active)
		return r.render()
	case "wait":
		r.clock.now = r.clock.now.Add(time.Duration(st.Ms * float64(time.Millisecond)))
		return nil
	}
	return fmt.Errorf("unknown action %q", st.Action)
}

func (r *scriptRun) render() error {
	return r.tree.Render(r.elements(r.current)...)
}

func (r *scriptRun) elements(specs []elementSpec) []Element {
	elems := make([]Element, len(specs))
	for i, s := range specs {
		elems[i] = Element{
			Key:      s.Key,
			Name:     s.Name,
			Delay:    s.Delay,
			Active:   s.Active,
			Appear:   s.Appear,
			Timing:   r.timings[s.Timing],
			Children: r.elements(s.Children),
		}
	}
	return elems
}

// findSpec returns the first spec named name in document order.
func findSpec(specs []elementSpec, name string) *elementSpec {
	for i := range specs {
		if specs[i].Name == name {
			return &specs[i]
		}
		if found := findSpec(specs[i].Children, name); found != nil {
			return found
		}
	}
	return nil
}

// cloneSpecs deep-copies specs so "set" steps never modify the script.
func cloneSpecs(specs []elementSpec) []elementSpec {
	if specs == nil {
		return nil
	}
	out := make([]elementSpec, len(specs))
	for i, s := range specs {
		out[i] = s
		out[i].Children = cloneSpecs(s.Children)
	}
	return out
}
