package collections

import (
	"github.com/delaneyj/gravity/graph"
)

// EntrySignal is a writable view over one key of a MapSignal: reads come
// from the parent entry, writes go back into the parent map. Because the
// getter reads the parent map signal, any structural mutation of the parent
// invalidates the entry.
type EntrySignal[K comparable, V any] struct {
	*graph.WriteableComputed[V]
	key K
}

func (e *EntrySignal[K, V]) Key() K { return e.key }

type entryConfig[V any] struct {
	createMissing  bool
	missing        V
	trackStructure bool
}

type EntryOption[V any] func(*entryConfig[V])

// EntryCreateMissing seeds the key with defaultValue when the view is
// created and the key is absent.
func EntryCreateMissing[V any](defaultValue V) EntryOption[V] {
	return func(cfg *entryConfig[V]) {
		cfg.createMissing = true
		cfg.missing = defaultValue
	}
}

// EntryTrackStructure disables the entry's equality dedupe, so subscribers
// hear about any mutation of the parent map — deletion and re-insertion of
// the key included — even when the mapped value is identity-equal.
func EntryTrackStructure[V any]() EntryOption[V] {
	return func(cfg *entryConfig[V]) { cfg.trackStructure = true }
}

// Entry binds a writable computed to one key of the map.
func (m *MapSignal[K, V]) Entry(key K, opts ...EntryOption[V]) *EntrySignal[K, V] {
	var cfg entryConfig[V]
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.createMissing {
		if _, ok := m.Peek()[key]; !ok {
			m.SetKey(key, cfg.missing)
		}
	}
	c := graph.ComputedWithSetter(m.System(),
		func(_ V) V {
			v, _ := m.GetKey(key)
			return v
		},
		func(v V) {
			m.SetKey(key, v)
		},
	)
	if cfg.trackStructure {
		c.WithEquals(graph.NeverEqual[V])
	}
	return &EntrySignal[K, V]{WriteableComputed: c, key: key}
}
