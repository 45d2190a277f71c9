package collections

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/gravity/graph"
)

// SetSignal is a signal holding a set, mutated in place. Add and Remove
// notify only when membership actually changed.
type SetSignal[T comparable] struct {
	*graph.WriteableSignal[mapset.Set[T]]
}

func Set[T comparable](rs *graph.ReactiveSystem, items ...T) *SetSignal[T] {
	// the graph is single-threaded by contract, no need for the locked variant
	return &SetSignal[T]{graph.Signal(rs, mapset.NewThreadUnsafeSet(items...))}
}

func (s *SetSignal[T]) Add(item T) {
	if s.Peek().Add(item) {
		s.ForceDirty()
	}
}

func (s *SetSignal[T]) Remove(item T) {
	set := s.Peek()
	if !set.Contains(item) {
		return
	}
	set.Remove(item)
	s.ForceDirty()
}

func (s *SetSignal[T]) Clear() {
	set := s.Peek()
	if set.Cardinality() == 0 {
		return
	}
	set.Clear()
	s.ForceDirty()
}

// Contains is a tracked read.
func (s *SetSignal[T]) Contains(item T) bool {
	return s.Value().Contains(item)
}

// Len is a tracked read.
func (s *SetSignal[T]) Len() int {
	return s.Value().Cardinality()
}

// ToSlice is a tracked read; element order is unspecified.
func (s *SetSignal[T]) ToSlice() []T {
	return s.Value().ToSlice()
}

// Each is a tracked iteration; returning true from fn stops early.
func (s *SetSignal[T]) Each(fn func(T) bool) {
	s.Value().Each(fn)
}

// Subscribe defaults to WatchAlways, same reasoning as ListSignal.
func (s *SetSignal[T]) Subscribe(cb func(newValue, oldValue mapset.Set[T]) error, opts ...graph.WatchOption[mapset.Set[T]]) func() {
	merged := append([]graph.WatchOption[mapset.Set[T]]{graph.WatchAlways[mapset.Set[T]]()}, opts...)
	return s.WriteableSignal.Subscribe(cb, merged...)
}
