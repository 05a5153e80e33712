package stagger

// Registry is an ordered list of descendant callbacks. Registration order is
// notification order. Not safe for concurrent use; like the node tree it is
// driven from a single goroutine.
type Registry struct {
	entries []*registryEntry
}

type registryEntry struct {
	fn      func()
	removed bool
}

// Subscribe appends fn and returns a handle that removes exactly this
// registration. Calling the handle again, or after Clear, is a no-op.
func (r *Registry) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		panic("stagger: cannot subscribe nil callback")
	}
	e := &registryEntry{fn: fn}
	r.entries = append(r.entries, e)
	return func() {
		if e.removed {
			return
		}
		e.removed = true
		r.remove(e)
	}
}

// NotifyAll calls every registered callback in registration order.
// Iteration runs over a snapshot: callbacks removed during the pass are
// skipped and callbacks added during the pass wait for the next one.
func (r *Registry) NotifyAll() {
	if len(r.entries) == 0 {
		return
	}
	snapshot := make([]*registryEntry, len(r.entries))
	copy(snapshot, r.entries)
	for _, e := range snapshot {
		if e.removed {
			continue
		}
		e.fn()
	}
}

// Len returns the number of live registrations.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Clear drops every registration. Outstanding handles become no-ops.
func (r *Registry) Clear() {
	for i, e := range r.entries {
		e.removed = true
		r.entries[i] = nil
	}
	r.entries = r.entries[:0]
}

// remove deletes e by identity. Uses copy+nil so the backing array does not
// keep the callback alive.
func (r *Registry) remove(e *registryEntry) {
	for i, c := range r.entries {
		if c == e {
			copy(r.entries[i:], r.entries[i+1:])
			r.entries[len(r.entries)-1] = nil
			r.entries = r.entries[:len(r.entries)-1]
			return
		}
	}
}
