// Package collections provides reactive containers: list, map, set and
// iterable signals whose mutation operations apply in place and then route
// through the graph's force-dirty path, since the container's identity is
// unchanged when its contents are. Whole-value reads and writes keep the
// standard signal contract.
package collections
