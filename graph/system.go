package graph

import "fmt"

// ReactiveSystem owns the node arena, the edge tables, the tracking stack and
// the flush queue. It is the explicit context object every primitive is
// constructed against; there is no package-level instance.
//
// The system is single-threaded and cooperative: one logical thread of
// control mutates the graph, and the only nested activity comes from
// re-entrant calls inside effect bodies, which are deferred to the next
// flush pass. It is not safe for concurrent use.
type ReactiveSystem struct {
	nextID uint64
	nodes  map[uint64]*node
	labels map[uint64][]uint64 // xxhash(label) -> node ids, see registry.go

	frames     []*trackFrame // nil entries are tracking pauses
	scopeStack []*Scope

	batchDepth int
	flushing   bool
	queue      []uint64 // stale effects/watchers, propagation order

	onError OnErrorFunc
}

// trackFrame accumulates the dependency set of one evaluation.
type trackFrame struct {
	consumer *node
	newDeps  []depEdge
}

func CreateReactiveSystem(onError OnErrorFunc) *ReactiveSystem {
	return &ReactiveSystem{
		nodes:   map[uint64]*node{},
		labels:  map[uint64][]uint64{},
		onError: onError,
	}
}

func (rs *ReactiveSystem) newNode(kind Kind) *node {
	rs.nextID++
	n := &node{id: rs.nextID, kind: kind}
	rs.nodes[n.id] = n
	if sc := rs.currentScope(); sc != nil {
		sc.adopt(n)
	}
	return n
}

func (rs *ReactiveSystem) mustLive(n *node, op string) {
	if n.flags&fDisposed != 0 {
		panic(&DisposedAccessError{NodeID: n.id, Kind: n.kind, Label: n.label, Op: op})
	}
}

// ---------------------------------------------------------------------------
// tracking

func (rs *ReactiveSystem) activeFrame() *trackFrame {
	if len(rs.frames) == 0 {
		return nil
	}
	return rs.frames[len(rs.frames)-1]
}

func (rs *ReactiveSystem) beginTracking(n *node) {
	rs.frames = append(rs.frames, &trackFrame{consumer: n})
}

// endTracking pops the evaluation frame and, when commit is set, swaps the
// consumer's dependency table for the freshly tracked one in a single step:
// edges to dependencies no longer read are removed, newly read ones added,
// keeping dep/sub symmetry intact. An aborted evaluation (getter panic)
// keeps the previous edges so the node still hears about upstream changes.
func (rs *ReactiveSystem) endTracking(n *node, commit bool) {
	frame := rs.frames[len(rs.frames)-1]
	rs.frames = rs.frames[:len(rs.frames)-1]
	if frame.consumer != n {
		panic("gravity: tracking stack corrupted")
	}
	if !commit || n.flags&fDisposed != 0 {
		// a node disposed mid-run finishes the run but holds no edges
		return
	}
	rs.commitEdges(n, frame.newDeps)
}

func (rs *ReactiveSystem) commitEdges(n *node, newDeps []depEdge) {
	for _, e := range n.deps {
		if !hasDep(newDeps, e.id) {
			if dep, ok := rs.nodes[e.id]; ok {
				dep.subs = removeID(dep.subs, n.id)
			}
		}
	}
	for _, e := range newDeps {
		if !hasDep(n.deps, e.id) {
			if dep, ok := rs.nodes[e.id]; ok {
				dep.subs = append(dep.subs, n.id)
			}
		}
	}
	n.deps = newDeps
}

// touch records a read of dep by the active consumer, if any. The dep's
// current version is captured so the consumer can later decide staleness
// without recomputing.
func (rs *ReactiveSystem) touch(dep *node) {
	frame := rs.activeFrame()
	if frame == nil || frame.consumer == dep {
		return
	}
	for i := range frame.newDeps {
		if frame.newDeps[i].id == dep.id {
			frame.newDeps[i].seen = dep.version
			return
		}
	}
	frame.newDeps = append(frame.newDeps, depEdge{id: dep.id, seen: dep.version})
}

// PauseTracking suspends dependency registration until ResumeTracking.
// Reads in between behave like Peek.
func (rs *ReactiveSystem) PauseTracking() {
	rs.frames = append(rs.frames, nil)
}

func (rs *ReactiveSystem) ResumeTracking() {
	if len(rs.frames) == 0 || rs.frames[len(rs.frames)-1] != nil {
		panic("gravity: ResumeTracking without matching PauseTracking")
	}
	rs.frames = rs.frames[:len(rs.frames)-1]
}

func (rs *ReactiveSystem) Untracked(fn func()) {
	rs.PauseTracking()
	defer rs.ResumeTracking()
	fn()
}

// ---------------------------------------------------------------------------
// staleness

// depsCurrent polls the consumer's dependencies, lazily refreshing computed
// ones, and reports whether every dependency still carries the version this
// consumer last observed. Polling parents before recomputing is what keeps
// diamonds single-shot and lets equality dedupe cut propagation short.
func (rs *ReactiveSystem) depsCurrent(n *node) bool {
	for i := range n.deps {
		e := &n.deps[i]
		dep, ok := rs.nodes[e.id]
		if !ok || dep.flags&fDisposed != 0 {
			return false
		}
		if dep.refresh != nil {
			dep.refresh()
		}
		if dep.version != e.seen {
			return false
		}
	}
	return true
}

// propagate walks the subscriber closure of a changed node, marking each
// node stale at most once between resolutions and queueing terminal
// consumers for the flush.
func (rs *ReactiveSystem) propagate(n *node) {
	for _, sid := range n.subs {
		sub, ok := rs.nodes[sid]
		if !ok || sub.flags&(fDisposed|fStale) != 0 {
			continue
		}
		sub.flags |= fStale
		if sub.rerun != nil {
			rs.enqueue(sub)
		} else {
			rs.propagate(sub)
		}
	}
}

func (rs *ReactiveSystem) enqueue(n *node) {
	if n.flags&fQueued != 0 {
		return
	}
	n.flags |= fQueued
	rs.queue = append(rs.queue, n.id)
}

// ---------------------------------------------------------------------------
// batching & flush

func (rs *ReactiveSystem) StartBatch() {
	rs.batchDepth++
}

func (rs *ReactiveSystem) EndBatch() {
	rs.batchDepth--
	if rs.batchDepth == 0 && !rs.flushing {
		rs.flush()
	}
}

// Batch defers the flush until fn returns, so any number of writes inside
// produce at most one run per affected effect/watcher.
func (rs *ReactiveSystem) Batch(fn func()) {
	rs.StartBatch()
	defer rs.EndBatch()
	fn()
}

func (rs *ReactiveSystem) flushIfIdle() {
	if rs.batchDepth > 0 || rs.flushing {
		return
	}
	rs.flush()
}

// flush drains the queue in passes. Within a pass each queued node runs at
// most once, in propagation order; computeds it depends on are pulled
// current before its body decides to run. Writes performed by a running body
// land in the next pass, and passes repeat until the graph is quiescent.
func (rs *ReactiveSystem) flush() {
	rs.flushing = true
	defer func() { rs.flushing = false }()

	for len(rs.queue) > 0 {
		pass := rs.queue
		rs.queue = nil
		for _, id := range pass {
			n, ok := rs.nodes[id]
			if !ok {
				continue
			}
			n.flags &^= fQueued
			if n.flags&fDisposed != 0 || n.flags&fStale == 0 {
				continue
			}
			rs.runQueued(n)
		}
	}
}

// runQueued resolves one queued node, isolating user errors so the rest of
// the flush still happens. Panics out of user getters are reported the same
// way; with no handler installed they propagate.
func (rs *ReactiveSystem) runQueued(n *node) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if rs.onError == nil {
			panic(r)
		}
		if err, ok := r.(error); ok {
			rs.onError(n.self, err)
		} else {
			rs.onError(n.self, fmt.Errorf("gravity: panic in reactive callback: %v", r))
		}
	}()
	if err := n.rerun(); err != nil && rs.onError != nil {
		rs.onError(n.self, err)
	}
}

// ---------------------------------------------------------------------------
// disposal

func (rs *ReactiveSystem) dispose(n *node) {
	if n.flags&fDisposed != 0 {
		return
	}
	n.flags |= fDisposed

	for _, e := range n.deps {
		if dep, ok := rs.nodes[e.id]; ok {
			dep.subs = removeID(dep.subs, n.id)
		}
	}
	n.deps = nil

	for _, sid := range n.subs {
		if sub, ok := rs.nodes[sid]; ok {
			sub.deps = removeDep(sub.deps, n.id)
		}
	}
	n.subs = nil

	if n.scope != nil {
		n.scope.forget(n.id)
		n.scope = nil
	}
	rs.unindexLabel(n)

	// release the closures; the row stays as a tombstone for inspection
	n.refresh = nil
	n.rerun = nil
	n.self = nil
}

func (rs *ReactiveSystem) currentScope() *Scope {
	if len(rs.scopeStack) == 0 {
		return nil
	}
	return rs.scopeStack[len(rs.scopeStack)-1]
}

func hasDep(deps []depEdge, id uint64) bool {
	for i := range deps {
		if deps[i].id == id {
			return true
		}
	}
	return false
}

func removeID(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeDep(deps []depEdge, id uint64) []depEdge {
	for i := range deps {
		if deps[i].id == id {
			return append(deps[:i], deps[i+1:]...)
		}
	}
	return deps
}
