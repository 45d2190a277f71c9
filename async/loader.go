// Package async adapts signals to asynchronous producers and consumers.
// The graph itself is single-threaded, so every adapter funnels completions
// through a Deliver hook that the caller points at their event loop; the
// default delivers inline, which is only correct when completions already
// arrive on the graph's thread.
package async

import (
	"context"
	"sync/atomic"

	"github.com/delaneyj/gravity/graph"
)

// Loader populates a signal from an asynchronous fetch. Each Reload bumps a
// monotonically increasing epoch; a completion whose epoch is no longer
// current is dropped, so a stale load can never overwrite a value that was
// set or reloaded after it started.
type Loader[T any] struct {
	sig     *graph.WriteableSignal[T]
	fetch   func(ctx context.Context) (T, error)
	deliver func(fn func())
	onError func(err error)
	epoch   atomic.Uint64
	closed  atomic.Bool
}

type LoaderOption[T any] func(*Loader[T])

// LoaderDeliver routes completions onto the graph's thread, e.g. a UI or
// actor loop's post function.
func LoaderDeliver[T any](deliver func(fn func())) LoaderOption[T] {
	return func(l *Loader[T]) { l.deliver = deliver }
}

// LoaderOnError receives fetch errors; without it they are dropped.
func LoaderOnError[T any](fn func(err error)) LoaderOption[T] {
	return func(l *Loader[T]) { l.onError = fn }
}

func NewLoader[T any](sig *graph.WriteableSignal[T], fetch func(ctx context.Context) (T, error), opts ...LoaderOption[T]) *Loader[T] {
	l := &Loader[T]{
		sig:     sig,
		fetch:   fetch,
		deliver: func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reload starts a fetch on its own goroutine and writes the result to the
// signal unless a newer Reload or Invalidate superseded it in the meantime.
func (l *Loader[T]) Reload(ctx context.Context) {
	if l.closed.Load() {
		return
	}
	epoch := l.epoch.Add(1)
	go func() {
		v, err := l.fetch(ctx)
		l.deliver(func() {
			if l.closed.Load() || l.epoch.Load() != epoch {
				return // superseded; drop the stale completion
			}
			if err != nil {
				if l.onError != nil {
					l.onError(err)
				}
				return
			}
			l.sig.SetValue(v)
		})
	}()
}

// Invalidate discards any in-flight fetch without starting a new one.
func (l *Loader[T]) Invalidate() {
	l.epoch.Add(1)
}

// Close makes all subsequent and in-flight completions no-ops. Idempotent.
func (l *Loader[T]) Close() {
	l.closed.Store(true)
}
