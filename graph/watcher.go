package graph

// Watcher tracks a single getter expression and invokes a callback with
// (newValue, oldValue) only when the tracked value actually changed per the
// watcher's equality function. The callback itself runs untracked.
type Watcher[T any] struct {
	handle
	getter    func() T
	cb        func(newValue, oldValue T) error
	equals    EqualsFunc[T]
	when      func(newValue, oldValue T) bool
	immediate bool
	last      T
}

type WatchOption[T any] func(*Watcher[T])

// WatchImmediate invokes the callback once at creation. Go has no null for a
// value type, so the initial oldValue is the zero value of T.
func WatchImmediate[T any]() WatchOption[T] {
	return func(w *Watcher[T]) { w.immediate = true }
}

// WatchWhen suppresses the callback unless the predicate holds for the
// transition. The watcher still re-evaluates and keeps its baseline current.
func WatchWhen[T any](pred func(newValue, oldValue T) bool) WatchOption[T] {
	return func(w *Watcher[T]) { w.when = pred }
}

// WatchAlways disables equality dedupe, so every upstream notification fires
// the callback. Required for identity-stable containers, where old and new
// alias the same mutated storage.
func WatchAlways[T any]() WatchOption[T] {
	return func(w *Watcher[T]) { w.equals = NeverEqual[T] }
}

func WatchEquals[T any](fn EqualsFunc[T]) WatchOption[T] {
	return func(w *Watcher[T]) { w.equals = fn }
}

func WatchLabel[T any](label string) WatchOption[T] {
	return func(w *Watcher[T]) { w.rs.relabel(w.n, label) }
}

// Watch evaluates getter under tracking to establish the dependency set and
// captures the result as the comparison baseline.
func Watch[T any](rs *ReactiveSystem, getter func() T, cb func(newValue, oldValue T) error, opts ...WatchOption[T]) *Watcher[T] {
	w := &Watcher[T]{
		getter: getter,
		cb:     cb,
		equals: DefaultEquals[T],
	}
	n := rs.newNode(KindWatcher)
	n.rerun = w.resolve
	n.self = w
	w.handle = handle{rs: rs, n: n}
	for _, opt := range opts {
		opt(w)
	}

	w.last = w.evaluate()
	if w.immediate {
		var zero T
		if err := w.cb(w.last, zero); err != nil && rs.onError != nil {
			rs.onError(w, err)
		}
	}
	return w
}

// evaluate runs the getter under tracking and commits the new dependency
// set. The callback never runs inside the frame.
func (w *Watcher[T]) evaluate() T {
	n := w.n
	w.rs.beginTracking(n)
	committed := false
	defer func() { w.rs.endTracking(n, committed) }()
	n.flags &^= fStale | fForced
	v := w.getter()
	committed = true
	return v
}

func (w *Watcher[T]) resolve() error {
	n := w.n
	if n.flags&fForced == 0 && w.rs.depsCurrent(n) {
		n.flags &^= fStale
		return nil
	}
	newValue := w.evaluate()
	oldValue := w.last
	if w.equals(oldValue, newValue) {
		return nil
	}
	w.last = newValue
	if w.when != nil && !w.when(newValue, oldValue) {
		return nil
	}
	return w.cb(newValue, oldValue)
}
