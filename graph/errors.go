package graph

import "fmt"

// OnErrorFunc receives errors returned (or panicked) by user-supplied effect
// bodies and watcher callbacks during a flush. Errors are isolated per node:
// the rest of the flush still runs.
type OnErrorFunc func(from Node, err error)

// CyclicDependencyError is raised (as a panic value) when a computed is read
// while it is already computing, i.e. the node is its own transitive
// dependency. The recompute that tripped the cycle is abandoned and the node
// stays dirty, so an independent read may retry once the cycle is broken.
type CyclicDependencyError struct {
	NodeID uint64
	Label  string
}

func (e *CyclicDependencyError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("gravity: cyclic dependency through %q (node %d)", e.Label, e.NodeID)
	}
	return fmt.Sprintf("gravity: cyclic dependency through node %d", e.NodeID)
}

// DisposedAccessError is raised (as a panic value) by any read, write or
// subscribe on a disposed node or scope.
type DisposedAccessError struct {
	NodeID uint64
	Kind   Kind
	Label  string
	Op     string
}

func (e *DisposedAccessError) Error() string {
	kind := e.Kind.String()
	if e.Kind == 0 {
		kind = "scope"
	}
	if e.Label != "" {
		return fmt.Sprintf("gravity: %s on disposed %s %q (node %d)", e.Op, kind, e.Label, e.NodeID)
	}
	return fmt.Sprintf("gravity: %s on disposed %s (node %d)", e.Op, kind, e.NodeID)
}
