package collections

import (
	"github.com/delaneyj/gravity/graph"
)

// MapSignal is a signal holding a map, mutated in place with force-dirty
// notification. Key reads are tracked.
type MapSignal[K comparable, V any] struct {
	*graph.WriteableSignal[map[K]V]
}

func Map[K comparable, V any](rs *graph.ReactiveSystem, initial map[K]V) *MapSignal[K, V] {
	if initial == nil {
		initial = map[K]V{}
	}
	return &MapSignal[K, V]{graph.Signal(rs, initial)}
}

func (m *MapSignal[K, V]) SetKey(key K, value V) {
	m.Mutate(func(mm map[K]V) map[K]V {
		mm[key] = value
		return mm
	})
}

// RemoveKey deletes a key; absent keys are no-ops and do not notify.
func (m *MapSignal[K, V]) RemoveKey(key K) {
	if _, ok := m.Peek()[key]; !ok {
		return
	}
	m.Mutate(func(mm map[K]V) map[K]V {
		delete(mm, key)
		return mm
	})
}

// UpdateKey rewrites an existing key's value through fn; absent keys are
// no-ops.
func (m *MapSignal[K, V]) UpdateKey(key K, fn func(V) V) {
	if _, ok := m.Peek()[key]; !ok {
		return
	}
	m.Mutate(func(mm map[K]V) map[K]V {
		mm[key] = fn(mm[key])
		return mm
	})
}

func (m *MapSignal[K, V]) Clear() {
	if len(m.Peek()) == 0 {
		return
	}
	m.Mutate(func(mm map[K]V) map[K]V {
		clear(mm)
		return mm
	})
}

// GetKey is a tracked read.
func (m *MapSignal[K, V]) GetKey(key K) (V, bool) {
	v, ok := m.Value()[key]
	return v, ok
}

// HasKey is a tracked read.
func (m *MapSignal[K, V]) HasKey(key K) bool {
	_, ok := m.GetKey(key)
	return ok
}

// Len is a tracked read.
func (m *MapSignal[K, V]) Len() int {
	return len(m.Value())
}

// Keys is a tracked read; iteration order follows the map.
func (m *MapSignal[K, V]) Keys() []K {
	mm := m.Value()
	keys := make([]K, 0, len(mm))
	for k := range mm {
		keys = append(keys, k)
	}
	return keys
}

// Subscribe defaults to WatchAlways, same reasoning as ListSignal.
func (m *MapSignal[K, V]) Subscribe(cb func(newValue, oldValue map[K]V) error, opts ...graph.WatchOption[map[K]V]) func() {
	merged := append([]graph.WatchOption[map[K]V]{graph.WatchAlways[map[K]V]()}, opts...)
	return m.WriteableSignal.Subscribe(cb, merged...)
}
