package collections

import (
	"iter"

	"github.com/delaneyj/gravity/graph"
)

// ListSignal is a signal holding a slice, with structural mutations that
// notify regardless of slice identity. Index reads and iteration are
// tracked like any other signal read.
type ListSignal[T any] struct {
	*graph.WriteableSignal[[]T]
}

func List[T any](rs *graph.ReactiveSystem, initial []T) *ListSignal[T] {
	if initial == nil {
		initial = []T{}
	}
	return &ListSignal[T]{graph.Signal(rs, initial)}
}

func (l *ListSignal[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	l.Mutate(func(v []T) []T { return append(v, items...) })
}

func (l *ListSignal[T]) Prepend(item T) {
	l.Mutate(func(v []T) []T { return append([]T{item}, v...) })
}

// InsertAt inserts at index, clamping to the valid range.
func (l *ListSignal[T]) InsertAt(index int, item T) {
	l.Mutate(func(v []T) []T {
		if index < 0 {
			index = 0
		}
		if index >= len(v) {
			return append(v, item)
		}
		v = append(v, item)
		copy(v[index+1:], v[index:])
		v[index] = item
		return v
	})
}

// SetAt replaces the element at index. Out-of-bounds writes are no-ops.
func (l *ListSignal[T]) SetAt(index int, item T) {
	if index < 0 || index >= len(l.Peek()) {
		return
	}
	l.Mutate(func(v []T) []T {
		v[index] = item
		return v
	})
}

// RemoveAt removes the element at index. Out-of-bounds removals are no-ops.
func (l *ListSignal[T]) RemoveAt(index int) {
	if index < 0 || index >= len(l.Peek()) {
		return
	}
	l.Mutate(func(v []T) []T {
		return append(v[:index], v[index+1:]...)
	})
}

// RemoveWhere drops every element matching pred, notifying only when
// something was actually removed.
func (l *ListSignal[T]) RemoveWhere(pred func(T) bool) {
	removed := false
	for _, item := range l.Peek() {
		if pred(item) {
			removed = true
			break
		}
	}
	if !removed {
		return
	}
	l.Mutate(func(v []T) []T {
		kept := v[:0]
		for _, item := range v {
			if !pred(item) {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

func (l *ListSignal[T]) Clear() {
	if len(l.Peek()) == 0 {
		return
	}
	l.Mutate(func(v []T) []T { return v[:0] })
}

// Len is a tracked read.
func (l *ListSignal[T]) Len() int {
	return len(l.Value())
}

// At is a tracked read of one element.
func (l *ListSignal[T]) At(index int) T {
	return l.Value()[index]
}

// All iterates (index, element) pairs as a tracked read.
func (l *ListSignal[T]) All() iter.Seq2[int, T] {
	v := l.Value()
	return func(yield func(int, T) bool) {
		for i, item := range v {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Subscribe defaults to WatchAlways: the old and new slice may alias the
// same mutated storage, so equality dedupe would swallow structural changes.
func (l *ListSignal[T]) Subscribe(cb func(newValue, oldValue []T) error, opts ...graph.WatchOption[[]T]) func() {
	merged := append([]graph.WatchOption[[]T]{graph.WatchAlways[[]T]()}, opts...)
	return l.WriteableSignal.Subscribe(cb, merged...)
}
