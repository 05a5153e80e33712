package stagger

import (
	"fmt"
	"time"
)

// Element describes one node of a Tree for a single Render pass. Nil
// pointer fields take their defaults: Delay falls back to DefaultDelay,
// Active and Appear to true.
type Element struct {
	// Key identifies the element among its siblings across renders. Without
	// a key, elements are matched by position.
	Key  string
	Name string

	Delay  *Delay
	Active *bool
	Appear *bool

	// Timing is only read when the node is created.
	Timing *Timing

	OnChange func(State)
	Children []Element
}

// Ptr returns a pointer to v, for the optional fields of Element.
func Ptr[T any](v T) *T {
	return &v
}

func (e *Element) config() Config {
	cfg := DefaultConfig()
	cfg.Name = e.Name
	if e.Delay != nil {
		cfg.Delay = *e.Delay
	}
	if e.Active != nil {
		cfg.Active = *e.Active
	}
	if e.Appear != nil {
		cfg.Appear = *e.Appear
	}
	cfg.Timing = e.Timing
	cfg.OnChange = e.OnChange
	return cfg
}

// instance is a mounted element.
type instance struct {
	key      string
	node     *Node
	children []*instance
}

type renderStats struct {
	created   int
	updated   int
	unmounted int
	emitted   int
}

// Tree is a minimal host for activation nodes. It reconciles successive
// element trees against the mounted nodes and drives node lifecycles in the
// order a retained UI framework does: props flow parent first, new nodes
// subscribe parent first, and mounts complete children first.
type Tree struct {
	roots []*instance

	defaultTiming *Timing
	sink          EventSink
	debug         bool
	now           func() time.Time

	// Per-render buffers, reused across renders.
	toMount   []*Node
	toUnmount []*instance
	stats     renderStats
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{now: time.Now}
}

// SetDefaultTiming sets the accumulator used by root elements without their
// own Timing. Nil restores the process-wide DefaultTiming.
func (t *Tree) SetDefaultTiming(timing *Timing) {
	t.defaultTiming = timing
}

// SetEventSink sets the optional downstream sink.
func (t *Tree) SetEventSink(sink EventSink) {
	t.sink = sink
}

// SetClock sets the clock used to timestamp StateEvents.
func (t *Tree) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	t.now = now
}

// SetDebugMode enables or disables debug mode. When enabled, every emitted
// state, per-render counters and tree shape warnings are printed to stderr.
func (t *Tree) SetDebugMode(enabled bool) {
	t.debug = enabled
	globalDebug = enabled
}

// Render reconciles the tree with elems. Every element is validated before
// anything changes; an invalid configuration leaves the tree untouched.
func (t *Tree) Render(elems ...Element) error {
	if err := validateElements(elems, ""); err != nil {
		return err
	}

	t.toMount = t.toMount[:0]
	t.toUnmount = t.toUnmount[:0]
	t.stats = renderStats{}

	roots, err := t.reconcile(nil, t.roots, elems, 1)
	t.roots = roots

	// Commit: removed subtrees detach before new nodes run their first check.
	for _, inst := range t.toUnmount {
		t.unmountSubtree(inst)
	}
	for _, n := range t.toMount {
		n.Mount()
	}

	if t.debug {
		debugLogRender(t.stats)
	}
	for i := range t.toMount {
		t.toMount[i] = nil
	}
	for i := range t.toUnmount {
		t.toUnmount[i] = nil
	}
	return err
}

// reconcile matches elems against old and returns the new instance list.
// Keyed elements match the old instance with the same key; unkeyed elements
// match the unkeyed instance at the same position.
func (t *Tree) reconcile(parent *Node, old []*instance, elems []Element, depth int) ([]*instance, error) {
	keyed := make(map[string]int)
	for i, inst := range old {
		if inst.key != "" {
			keyed[inst.key] = i
		}
	}
	used := make([]bool, len(old))

	next := make([]*instance, 0, len(elems))
	var firstErr error
	for i := range elems {
		e := &elems[i]
		match := -1
		if e.Key != "" {
			if j, ok := keyed[e.Key]; ok && !used[j] {
				match = j
			}
		} else if i < len(old) && old[i].key == "" && !used[i] {
			match = i
		}

		var inst *instance
		var err error
		if match >= 0 {
			used[match] = true
			inst, err = t.update(old[match], e, depth)
		} else {
			inst, err = t.create(parent, e, depth)
		}
		if inst != nil {
			next = append(next, inst)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for i, inst := range old {
		if !used[i] {
			t.toUnmount = append(t.toUnmount, inst)
		}
	}
	return next, firstErr
}

// update passes new props to a mounted node, then reconciles its children.
func (t *Tree) update(inst *instance, e *Element, depth int) (*instance, error) {
	cfg := e.config()
	n := inst.node
	if err := n.SetDelay(cfg.Delay); err != nil {
		return inst, err
	}
	n.SetOnChange(cfg.OnChange)
	n.SetActive(cfg.Active)
	t.stats.updated++

	children, err := t.reconcile(n, inst.children, e.Children, depth+1)
	inst.children = children
	return inst, err
}

// create constructs a node and its subtree. The node is queued for Mount
// after its children so that mounts complete bottom-up.
func (t *Tree) create(parent *Node, e *Element, depth int) (*instance, error) {
	cfg := e.config()
	if cfg.Timing == nil && parent == nil {
		cfg.Timing = t.defaultTiming
	}

	var p Parent
	if parent != nil {
		p = parent
	}
	n, err := newNode(p, cfg, t.observe)
	if err != nil {
		return nil, err
	}
	t.stats.created++
	if t.debug {
		debugCheckTreeDepth(depth, e.Name)
		if parent != nil {
			debugCheckSubscriberCount(parent)
		}
	}

	inst := &instance{key: e.Key, node: n}
	children, err := t.reconcile(n, nil, e.Children, depth+1)
	inst.children = children
	t.toMount = append(t.toMount, n)
	return inst, err
}

// unmountSubtree unmounts a node before its descendants.
func (t *Tree) unmountSubtree(inst *instance) {
	inst.node.Unmount()
	t.stats.unmounted++
	for _, c := range inst.children {
		t.unmountSubtree(c)
	}
}

// observe forwards an emission to the sink and debug output.
func (t *Tree) observe(n *Node, s State) {
	t.stats.emitted++
	if t.debug {
		debugLogState(n, s)
	}
	if t.sink != nil {
		t.sink.EmitState(StateEvent{
			NodeID: n.ID,
			Name:   n.Name,
			Value:  s.Value,
			Delay:  s.Delay,
			Time:   t.now(),
		})
	}
}

// Roots returns the mounted root nodes in order.
func (t *Tree) Roots() []*Node {
	nodes := make([]*Node, len(t.roots))
	for i, inst := range t.roots {
		nodes[i] = inst.node
	}
	return nodes
}

// Walk calls fn for every mounted node in document order with its depth
// (roots are depth 1). Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var walk func([]*instance, int)
	walk = func(list []*instance, depth int) {
		for _, inst := range list {
			if fn(inst.node, depth) {
				walk(inst.children, depth+1)
			}
		}
	}
	walk(t.roots, 1)
}

// Find returns the first node in document order with the given name, or nil.
func (t *Tree) Find(name string) *Node {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// Len returns the number of mounted nodes.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// validateElements checks every element's configuration and sibling keys.
func validateElements(elems []Element, path string) error {
	seen := make(map[string]bool)
	for i := range elems {
		e := &elems[i]
		p := fmt.Sprintf("%s/%d", path, i)
		if e.Name != "" {
			p = fmt.Sprintf("%s/%s", path, e.Name)
		}
		if e.Key != "" {
			if seen[e.Key] {
				return fmt.Errorf("element %s: %w", p,
					&ConfigError{Field: "key", Value: e.Key, Reason: "duplicated among siblings", Err: ErrInvalidConfig})
			}
			seen[e.Key] = true
		}
		if e.Delay != nil {
			if err := e.Delay.Validate(); err != nil {
				return fmt.Errorf("element %s: %w", p, err)
			}
		}
		if err := validateElements(e.Children, p); err != nil {
			return err
		}
	}
	return nil
}
