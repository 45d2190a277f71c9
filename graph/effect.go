package graph

// ErrFn is an effect body. A returned error is routed to the system's
// OnErrorFunc and does not abort the flush.
type ErrFn func() error

// EffectRunner re-runs its body whenever a tracked dependency actually
// changes. The body runs under tracking, so the dependency set follows
// whatever it read last.
type EffectRunner struct {
	handle
	fn   ErrFn
	when func() bool
}

type EffectOption func(*EffectRunner)

// EffectWhen installs an untracked guard evaluated before each re-run; when
// it returns false the run is skipped. Intended for consumers of collection
// signals whose identity is stable while contents mutate.
func EffectWhen(pred func() bool) EffectOption {
	return func(e *EffectRunner) { e.when = pred }
}

func EffectLabel(label string) EffectOption {
	return func(e *EffectRunner) { e.rs.relabel(e.n, label) }
}

// Effect runs fn immediately to establish its dependency set and re-runs it
// on changes, at most once per flush pass. Dispose detaches it from every
// dependency; a disposed effect never runs again, even if already queued.
func Effect(rs *ReactiveSystem, fn ErrFn, opts ...EffectOption) *EffectRunner {
	e := &EffectRunner{fn: fn}
	n := rs.newNode(KindEffect)
	n.rerun = e.resolve
	n.self = e
	e.handle = handle{rs: rs, n: n}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.runBody(); err != nil && rs.onError != nil {
		rs.onError(e, err)
	}
	return e
}

// resolve is called from the flush. The stale mark is only a hint: the body
// runs when some dependency's version really moved, which is what makes
// equality-deduped computeds upstream suppress the run entirely.
func (e *EffectRunner) resolve() error {
	n := e.n
	if n.flags&fForced == 0 && e.rs.depsCurrent(n) {
		n.flags &^= fStale
		return nil
	}
	if e.when != nil {
		allowed := false
		e.rs.Untracked(func() { allowed = e.when() })
		if !allowed {
			n.flags &^= fStale | fForced
			return nil
		}
	}
	return e.runBody()
}

func (e *EffectRunner) runBody() error {
	n := e.n
	e.rs.beginTracking(n)
	defer e.rs.endTracking(n, true)
	n.flags &^= fStale | fForced
	return e.fn()
}
