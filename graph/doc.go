// Package graph is a fine-grained reactive dependency engine: signals hold
// state, computeds derive from it lazily with caching, and effects/watchers
// run side effects when what they read actually changed. Dependency edges
// are discovered by running consumers under tracking, and change
// notification is batched and deduplicated so each consumer runs at most
// once per flush pass.
//
// Everything hangs off a ReactiveSystem, which is single-threaded by
// contract: one logical thread of control owns a system and all nodes
// created against it.
//
//	rs := graph.CreateReactiveSystem(nil)
//	count := graph.Signal(rs, 1)
//	double := graph.Computed(rs, func(_ int) int { return count.Value() * 2 })
//	graph.Effect(rs, func() error {
//		log.Printf("double is %d", double.Value())
//		return nil
//	})
//	count.SetValue(2) // effect re-runs once
package graph
