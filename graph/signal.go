package graph

// WriteableSignal is a mutable reactive cell: the leaf producer of changes.
// Reading it inside a tracked evaluation registers a dependency edge;
// writing it dirties the subscriber closure and flushes unless batched.
type WriteableSignal[T any] struct {
	handle
	value  T
	equals EqualsFunc[T]
}

func Signal[T any](rs *ReactiveSystem, initialValue T) *WriteableSignal[T] {
	s := &WriteableSignal[T]{
		value:  initialValue,
		equals: DefaultEquals[T],
	}
	n := rs.newNode(KindSignal)
	n.version = 1
	n.self = s
	s.handle = handle{rs: rs, n: n}
	return s
}

// WithEquals overrides the dedupe comparison. Chainable at construction.
func (s *WriteableSignal[T]) WithEquals(fn EqualsFunc[T]) *WriteableSignal[T] {
	s.equals = fn
	return s
}

// WithLabel attaches a human-readable label, visible through the registry.
func (s *WriteableSignal[T]) WithLabel(label string) *WriteableSignal[T] {
	s.rs.relabel(s.n, label)
	return s
}

// Value returns the current value, registering a dependency edge when a
// consumer is being tracked.
func (s *WriteableSignal[T]) Value() T {
	s.rs.mustLive(s.n, "read")
	s.rs.touch(s.n)
	return s.value
}

// Peek returns the current value without registering a dependency.
func (s *WriteableSignal[T]) Peek() T {
	s.rs.mustLive(s.n, "read")
	return s.value
}

// SetValue writes the signal. A value equal to the current one (per the
// signal's equality function) is a no-op: no version bump, no notification.
func (s *WriteableSignal[T]) SetValue(v T) {
	s.rs.mustLive(s.n, "write")
	if s.equals(s.value, v) {
		return
	}
	s.value = v
	s.bump()
}

// Update applies fn to the current value and writes the result back,
// subject to the same equality dedupe as SetValue.
func (s *WriteableSignal[T]) Update(fn func(old T) T) {
	s.rs.mustLive(s.n, "write")
	s.SetValue(fn(s.value))
}

// Mutate transforms the value in place and always notifies, skipping the
// equality comparison. This is the write path for container values whose
// identity does not change when their contents do.
func (s *WriteableSignal[T]) Mutate(fn func(T) T) {
	s.rs.mustLive(s.n, "write")
	s.value = fn(s.value)
	s.bump()
}

// ForceDirty notifies subscribers without any value comparison, for when the
// value's identity is unchanged but its content mutated out of band.
func (s *WriteableSignal[T]) ForceDirty() {
	s.rs.mustLive(s.n, "write")
	s.bump()
}

func (s *WriteableSignal[T]) bump() {
	s.n.version++
	s.rs.propagate(s.n)
	s.rs.flushIfIdle()
}

// Subscribe invokes cb with (new, old) whenever the signal's value actually
// changes. The returned func unsubscribes; it is the only token the caller
// has to hold on to.
func (s *WriteableSignal[T]) Subscribe(cb func(newValue, oldValue T) error, opts ...WatchOption[T]) func() {
	s.rs.mustLive(s.n, "subscribe")
	w := Watch(s.rs, s.Value, cb, opts...)
	return w.Dispose
}
