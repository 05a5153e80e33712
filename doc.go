// Package stagger computes cascading entry and exit delays for a tree of
// nodes that toggle between active and inactive.
//
// Each [Node] has its own Active flag and a [Delay]. Its effective
// activation is its own flag AND its ancestor's effective activation. When
// the effective activation flips, the node emits a [State] carrying the new
// value and a delay, so that siblings and descendants appear one after the
// other in document order instead of all at once.
//
// # Quick start
//
// The simplest way to get started is [Tree], which mounts element trees
// with the lifecycle ordering of a retained UI framework:
//
//	tree := stagger.NewTree()
//	tree.SetDefaultTiming(stagger.NewTiming())
//	err := tree.Render(
//		stagger.Element{Name: "title", OnChange: show("title")},
//		stagger.Element{Name: "body", OnChange: show("body")},
//	)
//	// title -> {true 0s}, body -> {true 100ms}
//
// For full control, build nodes yourself with [NewNode], passing each
// node's ancestor explicitly, and call [Node.Mount] children first.
//
// # Timing
//
// All nodes of a tree share one [Timing]. Requests that arrive within
// [GroupWindow] of each other belong to one stagger batch and accumulate;
// after a longer gap the next request starts again at 0. Only leaves commit
// their delay into the running total. An interior node reads the current
// delay for itself, notifies its descendants, and then reserves its after
// portion for the next sibling.
//
// A node without its own Timing inherits its ancestor's. A root without one
// uses [DefaultTiming], a process-wide instance.
//
// # Applying delays
//
// The package only computes delays. Waiting and animating is up to the
// consumer; [Reveal] and [Animator] tween a float field (such as an alpha)
// after the delay using [gween]. Trees can also forward every emitted state
// to an [EventSink], for example a [Recorder] or the Donburi adapter in
// stagger/ecs.
//
// # Scripts
//
// [LoadScript] reads YAML scenarios (renders, activation changes and clock
// advances) that replay deterministically; cmd/stagger-trace runs them from
// the command line and prints the resulting delays.
//
// [gween]: https://github.com/tanema/gween
package stagger
