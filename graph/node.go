package graph

// Kind tags what role a node plays in the dependency graph.
type Kind uint8

const (
	KindSignal Kind = iota + 1
	KindComputed
	KindEffect
	KindWatcher
)

func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindComputed:
		return "computed"
	case KindEffect:
		return "effect"
	case KindWatcher:
		return "watcher"
	default:
		return "unknown"
	}
}

type nodeFlags uint8

const (
	// fStale marks a node whose cached value / last run can no longer be
	// trusted because something upstream changed. Set at most once between
	// resolutions.
	fStale nodeFlags = 1 << iota
	// fComputing guards against a computed re-entering its own getter.
	fComputing
	// fForced skips the dependency version check on the next resolution.
	// Used by force-dirty invalidation where values mutate in place.
	fForced
	// fQueued dedupes effect/watcher scheduling within a flush pass.
	fQueued
	fDisposed
)

// depEdge is one row of a node's dependency table: the id of the dependency
// and the dependency's version as last observed by this consumer.
type depEdge struct {
	id   uint64
	seen uint64
}

// node is one arena row. Edges are stored as id tables rather than pointers
// so that disposal is row removal, never cycle breaking.
type node struct {
	id      uint64
	kind    Kind
	label   string
	flags   nodeFlags
	version uint64

	deps []depEdge // nodes this node read during its last evaluation
	subs []uint64  // nodes whose last evaluation read this node

	scope *Scope

	// installed by the typed constructors
	refresh func()       // computeds: bring the cached value current
	rerun   func() error // effects/watchers: resolve staleness during a flush
	self    Node         // the public wrapper, reported to OnErrorFunc
}

// Node is the type-erased surface every reactive primitive shares.
type Node interface {
	ID() uint64
	Kind() Kind
	Label() string
	IsDisposed() bool
	Dispose()
}

// handle ties a typed wrapper back to its arena row.
type handle struct {
	rs *ReactiveSystem
	n  *node
}

func (h *handle) ID() uint64   { return h.n.id }
func (h *handle) Kind() Kind   { return h.n.kind }
func (h *handle) Label() string { return h.n.label }

func (h *handle) IsDisposed() bool { return h.n.flags&fDisposed != 0 }

// System returns the ReactiveSystem this node was created against.
func (h *handle) System() *ReactiveSystem { return h.rs }

// Dispose removes the node from the graph: both edge directions are cleared
// atomically, pending scheduling is suppressed and any further read, write or
// subscribe on the wrapper panics with *DisposedAccessError. Idempotent.
func (h *handle) Dispose() { h.rs.dispose(h.n) }

// Readable is the read-only contract shared by signals, computeds and views.
type Readable[T any] interface {
	Value() T
	Peek() T
	Subscribe(cb func(newValue, oldValue T) error, opts ...WatchOption[T]) func()
}
