package stagger

import (
	"fmt"
	"io"
	"os"
)

// debugWriter receives debug output. Tests swap it for a buffer.
var debugWriter io.Writer = os.Stderr

// globalDebug mirrors the most recently set Tree debug flag so that node
// operations (which lack a Tree pointer) can check it cheaply. Only valid
// with a single Tree; multiple Trees with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// debugLogState prints one emitted state.
func debugLogState(n *Node, s State) {
	_, _ = fmt.Fprintf(debugWriter, "[stagger] %s: value=%v delay=%v\n", debugName(n), s.Value, s.Delay)
}

// debugWarnDisposedNotify reports an ancestor notification that reached an
// unmounted node. The notification is ignored.
func debugWarnDisposedNotify(n *Node) {
	_, _ = fmt.Fprintf(debugWriter, "[stagger] warning: notify after unmount ignored (node %s)\n", debugName(n))
}

// debugCheckTreeDepth warns if an element tree is deeper than the threshold.
// Propagation is recursive, so very deep trees are suspicious.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(depth int, name string) {
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(debugWriter, "[stagger] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, name)
	}
}

// debugCheckSubscriberCount warns if a node has more than 1000 subscribers.
const debugMaxSubscribers = 1000

func debugCheckSubscriberCount(n *Node) {
	if c := n.SubscriberCount(); c > debugMaxSubscribers {
		_, _ = fmt.Fprintf(debugWriter, "[stagger] warning: node %s has %d subscribers (threshold %d)\n",
			debugName(n), c, debugMaxSubscribers)
	}
}

// debugLogRender prints per-render counters.
func debugLogRender(stats renderStats) {
	_, _ = fmt.Fprintf(debugWriter,
		"[stagger] render: created %d | updated %d | unmounted %d | emitted %d\n",
		stats.created, stats.updated, stats.unmounted, stats.emitted)
}

func debugName(n *Node) string {
	if n.Name != "" {
		return fmt.Sprintf("%q", n.Name)
	}
	return fmt.Sprintf("#%d", n.ID)
}
