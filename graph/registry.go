package graph

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// NodeInfo is one registry row: the inspectable shape of a node. Dependency
// ids are in tracked (read) order, subscriber ids in subscription order.
type NodeInfo struct {
	ID            uint64
	Kind          Kind
	Label         string
	Version       uint64
	DependencyIDs []uint64
	SubscriberIDs []uint64
	Disposed      bool
}

// Nodes snapshots the registry, sorted by id. The snapshot is taken from the
// live edge tables, so it reflects every structural change made so far.
func (rs *ReactiveSystem) Nodes() []NodeInfo {
	infos := make([]NodeInfo, 0, len(rs.nodes))
	for _, n := range rs.nodes {
		infos = append(infos, rs.info(n))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Node looks up a single registry row by id.
func (rs *ReactiveSystem) Node(id uint64) (NodeInfo, bool) {
	n, ok := rs.nodes[id]
	if !ok {
		return NodeInfo{}, false
	}
	return rs.info(n), true
}

// FindByLabel returns the rows carrying the given label, in id order.
func (rs *ReactiveSystem) FindByLabel(label string) []NodeInfo {
	ids := rs.labels[xxhash.Sum64String(label)]
	infos := make([]NodeInfo, 0, len(ids))
	for _, id := range ids {
		n, ok := rs.nodes[id]
		if !ok || n.label != label { // hash bucket may collide
			continue
		}
		infos = append(infos, rs.info(n))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Compact drops tombstoned rows of disposed nodes. Their edges were already
// removed at disposal; this only reclaims the inspection metadata.
func (rs *ReactiveSystem) Compact() {
	for id, n := range rs.nodes {
		if n.flags&fDisposed != 0 {
			delete(rs.nodes, id)
		}
	}
}

func (rs *ReactiveSystem) info(n *node) NodeInfo {
	deps := make([]uint64, len(n.deps))
	for i, e := range n.deps {
		deps[i] = e.id
	}
	subs := make([]uint64, len(n.subs))
	copy(subs, n.subs)
	return NodeInfo{
		ID:            n.id,
		Kind:          n.kind,
		Label:         n.label,
		Version:       n.version,
		DependencyIDs: deps,
		SubscriberIDs: subs,
		Disposed:      n.flags&fDisposed != 0,
	}
}

func (rs *ReactiveSystem) relabel(n *node, label string) {
	rs.unindexLabel(n)
	n.label = label
	if label == "" {
		return
	}
	h := xxhash.Sum64String(label)
	rs.labels[h] = append(rs.labels[h], n.id)
}

func (rs *ReactiveSystem) unindexLabel(n *node) {
	if n.label == "" {
		return
	}
	h := xxhash.Sum64String(n.label)
	ids := removeID(rs.labels[h], n.id)
	if len(ids) == 0 {
		delete(rs.labels, h)
	} else {
		rs.labels[h] = ids
	}
}
