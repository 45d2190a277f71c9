package graph

// ReadonlySignal is a lazily recomputed, cached, derived value. The getter
// receives the previous cached value (zero on the first run) and is executed
// under tracking, so the dependency set is rebuilt on every recompute:
// edges to dependencies no longer read are pruned, new ones added.
//
// State machine: Clean -> Dirty (upstream changed) -> Computing (on read
// while dirty) -> Clean. Re-entering Computing panics with
// *CyclicDependencyError and leaves the node dirty.
type ReadonlySignal[T any] struct {
	handle
	value       T
	getter      func(oldValue T) T
	equals      EqualsFunc[T]
	initialized bool
}

func Computed[T any](rs *ReactiveSystem, getter func(oldValue T) T) *ReadonlySignal[T] {
	c := &ReadonlySignal[T]{
		getter: getter,
		equals: DefaultEquals[T],
	}
	n := rs.newNode(KindComputed)
	n.flags |= fStale
	n.refresh = c.refresh
	n.self = c
	c.handle = handle{rs: rs, n: n}
	return c
}

func (c *ReadonlySignal[T]) WithEquals(fn EqualsFunc[T]) *ReadonlySignal[T] {
	c.equals = fn
	return c
}

func (c *ReadonlySignal[T]) WithLabel(label string) *ReadonlySignal[T] {
	c.rs.relabel(c.n, label)
	return c
}

// Value returns the cached value, recomputing first if a dependency actually
// changed since the last evaluation. Reading while clean touches nothing but
// the edge to the active consumer.
func (c *ReadonlySignal[T]) Value() T {
	c.rs.mustLive(c.n, "read")
	c.refresh()
	c.rs.touch(c.n)
	return c.value
}

// Peek resolves staleness but does not register a dependency edge.
func (c *ReadonlySignal[T]) Peek() T {
	c.rs.mustLive(c.n, "read")
	c.rs.PauseTracking()
	defer c.rs.ResumeTracking()
	c.refresh()
	return c.value
}

// Invalidate force-dirties the computed without a value comparison, for
// caches backed by out-of-band state. The next read recomputes
// unconditionally and subscribers are notified now.
func (c *ReadonlySignal[T]) Invalidate() {
	c.rs.mustLive(c.n, "write")
	c.n.flags |= fStale | fForced
	c.rs.propagate(c.n)
	c.rs.flushIfIdle()
}

func (c *ReadonlySignal[T]) Subscribe(cb func(newValue, oldValue T) error, opts ...WatchOption[T]) func() {
	c.rs.mustLive(c.n, "subscribe")
	w := Watch(c.rs, c.Value, cb, opts...)
	return w.Dispose
}

// refresh is the pull half of the engine. A stale computed first polls its
// dependencies; only when one of them carries a new version does the getter
// actually run. An unchanged recompute result clears staleness without
// bumping the version, so downstream consumers never hear about it.
func (c *ReadonlySignal[T]) refresh() {
	n := c.n
	if n.flags&fComputing != 0 {
		panic(&CyclicDependencyError{NodeID: n.id, Label: n.label})
	}
	if c.initialized && n.flags&fStale == 0 {
		return
	}
	if c.initialized && n.flags&fForced == 0 && c.rs.depsCurrent(n) {
		n.flags &^= fStale
		return
	}

	n.flags |= fComputing
	c.rs.beginTracking(n)
	committed := false
	defer func() {
		n.flags &^= fComputing
		// a getter panic discards the partial dependency set and keeps the
		// node dirty; the next read retries
		c.rs.endTracking(n, committed)
	}()

	oldValue := c.value
	newValue := c.getter(oldValue)
	committed = true

	changed := !c.initialized || !c.equals(oldValue, newValue)
	c.initialized = true
	n.flags &^= fStale | fForced
	if changed {
		c.value = newValue
		n.version++
	}
}

// WriteableComputed is a computed with a user-supplied setter: assignment is
// redirected through the setter (typically forwarding to an upstream signal)
// and never writes the cache directly; the next read recomputes from the
// now-changed upstream.
type WriteableComputed[T any] struct {
	ReadonlySignal[T]
	setter func(value T)
}

func ComputedWithSetter[T any](rs *ReactiveSystem, getter func(oldValue T) T, setter func(value T)) *WriteableComputed[T] {
	c := &WriteableComputed[T]{
		ReadonlySignal: ReadonlySignal[T]{
			getter: getter,
			equals: DefaultEquals[T],
		},
		setter: setter,
	}
	n := rs.newNode(KindComputed)
	n.flags |= fStale
	n.refresh = c.refresh
	n.self = c
	c.handle = handle{rs: rs, n: n}
	return c
}

func (c *WriteableComputed[T]) WithEquals(fn EqualsFunc[T]) *WriteableComputed[T] {
	c.equals = fn
	return c
}

func (c *WriteableComputed[T]) WithLabel(label string) *WriteableComputed[T] {
	c.rs.relabel(c.n, label)
	return c
}

func (c *WriteableComputed[T]) SetValue(v T) {
	c.rs.mustLive(c.n, "write")
	c.setter(v)
}
