package stagger

import "time"

// Parent is the view a node has of its nearest ancestor. It is passed to
// NewNode explicitly; nodes never look their ancestors up.
type Parent interface {
	// Subscribe registers fn to run whenever the ancestor's effective
	// activation flips. The returned handle removes the registration.
	Subscribe(fn func()) (unsubscribe func())
	// EffectiveActive reports the ancestor's current effective activation.
	EffectiveActive() bool
	// Timing returns the accumulator the ancestor resolved for its subtree.
	Timing() *Timing
}

// Config configures a Node. Start from DefaultConfig; the zero Config is a
// node that is inactive, has no delay and does not animate its first
// appearance.
type Config struct {
	Name string

	// Delay is the node's own contribution, split around its descendants.
	Delay Delay

	// Active is the node's own requested state.
	Active bool

	// Appear controls whether the first activation after mount may be
	// delayed. When false the node settles instantly on construction.
	Appear bool

	// Timing overrides the accumulator. Nil inherits the ancestor's, and a
	// root without one falls back to DefaultTiming.
	Timing *Timing

	// OnChange receives every emitted state.
	OnChange func(State)
}

// DefaultConfig returns an active node with DefaultDelay that animates its
// first appearance.
func DefaultConfig() Config {
	return Config{
		Delay:  DefaultDelay,
		Active: true,
		Appear: true,
	}
}

// nodeIDCounter is a plain counter. Nodes are driven from one goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is one element of an activation tree. It combines its own Active
// flag with its ancestor's effective activation and, whenever the result
// flips, asks the shared Timing for a delay and notifies its descendants.
type Node struct {
	ID   uint32
	Name string

	delay    Delay
	appear   bool
	onChange func(State)
	observe  func(*Node, State) // set by Tree for sinks and debug output

	// Hierarchy
	parent      Parent
	unsubscribe func()
	subscribers Registry
	timing      *Timing

	selfActive bool
	effective  bool
	state      State

	mounted  bool
	disposed bool
}

// NewNode creates a node below parent (nil for a root) and subscribes it to
// the parent's registry. When cfg.Appear is false the node settles on its
// initial state immediately with a zero delay.
func NewNode(parent Parent, cfg Config) (*Node, error) {
	return newNode(parent, cfg, nil)
}

func newNode(parent Parent, cfg Config, observe func(*Node, State)) (*Node, error) {
	if err := cfg.Delay.Validate(); err != nil {
		return nil, err
	}
	if p, ok := parent.(*Node); ok {
		if p == nil {
			parent = nil
		} else if p.disposed {
			return nil, &ConfigError{Field: "parent", Value: p.Name, Reason: "is unmounted", Err: ErrInvalidConfig}
		}
	}

	n := &Node{
		ID:         nextNodeID(),
		Name:       cfg.Name,
		delay:      cfg.Delay,
		appear:     cfg.Appear,
		onChange:   cfg.OnChange,
		observe:    observe,
		parent:     parent,
		selfActive: cfg.Active,
	}
	n.timing = resolveTiming(cfg.Timing, parent)

	if parent != nil {
		n.unsubscribe = parent.Subscribe(n.parentChanged)
	}
	if !n.appear {
		n.CheckUpdate(true)
	}
	return n, nil
}

func resolveTiming(own *Timing, parent Parent) *Timing {
	if own != nil {
		return own
	}
	if parent != nil {
		if t := parent.Timing(); t != nil {
			return t
		}
	}
	return DefaultTiming()
}

// Mount runs the first activation check of a node that animates its
// appearance. Hosts call it after the node's descendants are mounted.
func (n *Node) Mount() {
	if n.disposed || n.mounted {
		return
	}
	n.mounted = true
	if n.appear {
		n.CheckUpdate(false)
	}
}

// SetActive changes the node's own requested state and re-evaluates it.
func (n *Node) SetActive(active bool) {
	if n.disposed {
		return
	}
	n.selfActive = active
	n.CheckUpdate(false)
}

// SetDelay replaces the node's own delay. It applies to the next flip.
func (n *Node) SetDelay(d Delay) error {
	if err := d.Validate(); err != nil {
		return err
	}
	n.delay = d
	return nil
}

// SetOnChange replaces the state callback.
func (n *Node) SetOnChange(fn func(State)) {
	n.onChange = fn
}

// CheckUpdate recomputes the effective activation and emits a new State if
// it flipped. It is a no-op when nothing changed. With forceInstant the
// emitted delay is 0 and the Timing is left untouched.
func (n *Node) CheckUpdate(forceInstant bool) {
	if n.disposed {
		return
	}
	parentActive := true
	if n.parent != nil {
		parentActive = n.parent.EffectiveActive()
	}
	value := n.selfActive && parentActive
	if value == n.effective {
		return
	}
	n.effective = value

	n.emit(State{Value: value, Delay: n.computeDelay(value, forceInstant)})
}

// computeDelay returns the node's delay for a flip to active. Only leaves
// commit their request: an interior node must not take a slot its
// descendants still compete for. Descendants are notified between the
// before and after requests so delays accumulate in document order.
func (n *Node) computeDelay(active, forceInstant bool) time.Duration {
	if forceInstant {
		return 0
	}

	leaf := n.subscribers.Len() == 0
	var total time.Duration
	if active {
		total = n.timing.RequestDelay(n.delay.Before, leaf)
	}
	if !leaf {
		n.subscribers.NotifyAll()
	}
	if active {
		n.timing.RequestDelay(n.delay.After, false)
	}
	return total
}

func (n *Node) emit(s State) {
	n.state = s
	if n.observe != nil {
		n.observe(n, s)
	}
	if n.onChange != nil {
		n.onChange(s)
	}
}

// parentChanged is the callback registered with the parent.
func (n *Node) parentChanged() {
	if n.disposed {
		if globalDebug {
			debugWarnDisposedNotify(n)
		}
		return
	}
	n.CheckUpdate(false)
}

// Unmount detaches the node from its parent and discards its own registry.
// Descendants' handles into that registry become no-ops. Safe to call more
// than once.
func (n *Node) Unmount() {
	if n.disposed {
		return
	}
	if n.unsubscribe != nil {
		n.unsubscribe()
		n.unsubscribe = nil
	}
	n.subscribers.Clear()
	n.disposed = true
	n.mounted = false
	n.parent = nil
	n.onChange = nil
	n.observe = nil
}

// --- Parent implementation ---

// Subscribe registers a descendant callback. See Parent.
func (n *Node) Subscribe(fn func()) (unsubscribe func()) {
	if n.disposed {
		return func() {}
	}
	return n.subscribers.Subscribe(fn)
}

// EffectiveActive reports the last computed effective activation.
func (n *Node) EffectiveActive() bool {
	return n.effective
}

// Timing returns the accumulator resolved for this node's subtree.
func (n *Node) Timing() *Timing {
	return n.timing
}

// --- Accessors ---

// State returns the last emitted state. A new node reports {false 0}.
func (n *Node) State() State {
	return n.state
}

// SelfActive returns the node's own requested state.
func (n *Node) SelfActive() bool {
	return n.selfActive
}

// Delay returns the node's own delay.
func (n *Node) Delay() Delay {
	return n.delay
}

// SubscriberCount returns the number of subscribed descendants.
func (n *Node) SubscriberCount() int {
	return n.subscribers.Len()
}

// IsLeaf reports whether no descendant is currently subscribed.
func (n *Node) IsLeaf() bool {
	return n.subscribers.Len() == 0
}

// IsMounted reports whether Mount has run and Unmount has not.
func (n *Node) IsMounted() bool {
	return n.mounted
}

// IsDisposed reports whether the node has been unmounted.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// HasParent reports whether the node is attached below an ancestor.
func (n *Node) HasParent() bool {
	return n.unsubscribe != nil
}
