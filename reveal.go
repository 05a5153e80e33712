package stagger

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Reveal applies one emitted State to a float64 field, usually an alpha:
// it waits out the state's delay, then tweens the field to 1 (active) or 0
// (inactive). Call Update(dt) each frame.
//
// Reveal is a consumer of the computed delay; the delay itself is decided
// by the node tree.
type Reveal struct {
	tween  *gween.Tween
	target *float64
	wait   float32 // seconds left before the tween starts
	Done   bool
}

// NewReveal creates a Reveal that animates *target from its current value
// over duration seconds using fn, starting after s.Delay.
func NewReveal(target *float64, s State, duration float32, fn ease.TweenFunc) *Reveal {
	to := float32(0)
	if s.Value {
		to = 1
	}
	return &Reveal{
		tween:  gween.New(float32(*target), to, duration, fn),
		target: target,
		wait:   float32(s.Delay.Seconds()),
	}
}

// Update advances the reveal by dt seconds. Time left over after the delay
// runs out is applied to the tween in the same call.
func (r *Reveal) Update(dt float32) {
	if r.Done {
		return
	}
	if r.wait > 0 {
		if dt < r.wait {
			r.wait -= dt
			return
		}
		dt -= r.wait
		r.wait = 0
	}
	val, finished := r.tween.Update(dt)
	*r.target = float64(val)
	r.Done = finished
}

// Waiting reports whether the reveal is still inside its delay.
func (r *Reveal) Waiting() bool {
	return r.wait > 0
}

// Animator keeps at most one Reveal per target field. A new state for a
// target replaces the running reveal, starting from the field's current
// value.
//
// There is no global animation manager. Callers run Update themselves.
type Animator struct {
	Duration float32
	Ease     ease.TweenFunc

	reveals map[*float64]*Reveal
	order   []*float64
}

// NewAnimator creates an Animator whose reveals last duration seconds.
func NewAnimator(duration float32, fn ease.TweenFunc) *Animator {
	if fn == nil {
		fn = ease.Linear
	}
	return &Animator{
		Duration: duration,
		Ease:     fn,
		reveals:  make(map[*float64]*Reveal),
	}
}

// Apply starts a reveal of s on target, replacing any running one.
func (a *Animator) Apply(target *float64, s State) {
	if _, ok := a.reveals[target]; !ok {
		a.order = append(a.order, target)
	}
	a.reveals[target] = NewReveal(target, s, a.Duration, a.Ease)
}

// Bind returns an OnChange callback that applies every state to target.
func (a *Animator) Bind(target *float64) func(State) {
	return func(s State) {
		a.Apply(target, s)
	}
}

// Update advances every running reveal by dt seconds in the order targets
// were first applied, and drops the finished ones.
func (a *Animator) Update(dt float32) {
	kept := a.order[:0]
	for _, target := range a.order {
		r := a.reveals[target]
		r.Update(dt)
		if r.Done {
			delete(a.reveals, target)
			continue
		}
		kept = append(kept, target)
	}
	for i := len(kept); i < len(a.order); i++ {
		a.order[i] = nil
	}
	a.order = kept
}

// Running returns the number of reveals still in progress.
func (a *Animator) Running() int {
	return len(a.reveals)
}
