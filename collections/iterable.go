package collections

import (
	"iter"

	"github.com/delaneyj/gravity/graph"
)

// IterableSignal holds a lazily produced sequence. Sequences have no useful
// equality, so every write notifies.
type IterableSignal[T any] struct {
	*graph.WriteableSignal[iter.Seq[T]]
}

func Iterable[T any](rs *graph.ReactiveSystem, seq iter.Seq[T]) *IterableSignal[T] {
	if seq == nil {
		seq = func(func(T) bool) {}
	}
	s := graph.Signal(rs, seq).WithEquals(graph.NeverEqual[iter.Seq[T]])
	return &IterableSignal[T]{s}
}

// Seq is a tracked read of the sequence itself.
func (s *IterableSignal[T]) Seq() iter.Seq[T] {
	return s.Value()
}

// ToSlice materializes the sequence as a tracked read.
func (s *IterableSignal[T]) ToSlice() []T {
	var out []T
	for v := range s.Value() {
		out = append(out, v)
	}
	return out
}

// Each drains the sequence as a tracked read; returning true from fn stops
// early.
func (s *IterableSignal[T]) Each(fn func(T) bool) {
	for v := range s.Value() {
		if fn(v) {
			return
		}
	}
}

// Count drains the sequence as a tracked read.
func (s *IterableSignal[T]) Count() int {
	n := 0
	for range s.Value() {
		n++
	}
	return n
}

// Subscribe defaults to WatchAlways: sequence values are uncomparable.
func (s *IterableSignal[T]) Subscribe(cb func(newValue, oldValue iter.Seq[T]) error, opts ...graph.WatchOption[iter.Seq[T]]) func() {
	merged := append([]graph.WatchOption[iter.Seq[T]]{graph.WatchAlways[iter.Seq[T]]()}, opts...)
	return s.WriteableSignal.Subscribe(cb, merged...)
}
