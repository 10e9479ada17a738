package depgraph

import (
	"slices"
	"sync/atomic"

	"github.com/depscope/depscope/pkg/errors"
)

// Graph is an immutable dependency graph over package occurrences.
//
// Nodes are referenced by opaque string identifiers stored in maps, never by
// direct object references, which keeps cycles representable and traversal
// cheap. A Graph is produced once, by a [Builder] or by the document
// deserializer, and exposes only queries afterwards.
//
// The only mutable state is a pair of lazily-populated memoization caches
// (the cycle-detection flag and the per-node path-count table). Both are
// published atomically after being computed in full, so concurrent readers
// are safe without locking: recomputing either cache always yields the same
// result and the last writer wins.
type Graph struct {
	pkgManager string
	rootID     NodeID

	nodes     map[NodeID]*Node
	nodeOrder []NodeID // insertion order, used for serialization
	outgoing  map[NodeID][]NodeID
	incoming  map[NodeID][]NodeID

	registry    map[PackageID]PackageInfo
	pkgOrder    []PackageID // registry insertion order
	occurrences map[PackageID][]NodeID

	cyclic     atomic.Pointer[bool]
	pathCounts atomic.Pointer[map[NodeID]int]
}

// PkgManager returns the opaque package-manager descriptor the graph was
// constructed with (e.g. "npm", "poetry").
func (g *Graph) PkgManager() string { return g.pkgManager }

// RootNodeID returns the id of the distinguished root node.
func (g *Graph) RootNodeID() NodeID { return g.rootID }

// RootPackage returns the registry entry for the root node's package.
func (g *Graph) RootPackage() PackageInfo {
	root := g.nodes[g.rootID]
	return g.registry[root.PackageID]
}

// NodeCount returns the number of node occurrences in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of dependency edges in the graph.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, deps := range g.outgoing {
		total += len(deps)
	}
	return total
}

// AllPackages returns every distinct package registry entry, in registry
// insertion order.
func (g *Graph) AllPackages() []PackageInfo {
	out := make([]PackageInfo, 0, len(g.pkgOrder))
	for _, id := range g.pkgOrder {
		out = append(out, g.registry[id])
	}
	return out
}

// DependencyPackages returns [Graph.AllPackages] minus the root package.
// Exclusion is by package identity, not node identity: a non-root occurrence
// of the root package identity is still excluded.
func (g *Graph) DependencyPackages() []PackageInfo {
	rootPkg := g.nodes[g.rootID].PackageID
	out := make([]PackageInfo, 0, len(g.pkgOrder))
	for _, id := range g.pkgOrder {
		if id == rootPkg {
			continue
		}
		out = append(out, g.registry[id])
	}
	return out
}

// OccurrencesOf returns one [Occurrence] per graph position where the given
// package identity appears. A package identity may occur 0, 1, or many times
// (diamond dependencies, multiple resolved versions).
//
// Returns an UNKNOWN_PACKAGE error if the identity is absent from the
// registry.
func (g *Graph) OccurrencesOf(pkg Package) ([]Occurrence, error) {
	id := pkg.ID()
	info, ok := g.registry[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownPackage, "package %s is not in the graph", pkg)
	}
	ids := g.occurrences[id]
	out := make([]Occurrence, 0, len(ids))
	for _, nid := range ids {
		out = append(out, Occurrence{Node: *g.nodes[nid], Pkg: info})
	}
	return out, nil
}

// PackageByID returns the registry entry for a canonical package key.
// Returns an UNKNOWN_PACKAGE error if the key is absent from the registry.
func (g *Graph) PackageByID(id PackageID) (PackageInfo, error) {
	info, ok := g.registry[id]
	if !ok {
		return PackageInfo{}, errors.New(errors.ErrCodeUnknownPackage, "package %s is not in the graph", id)
	}
	return info, nil
}

// Node returns the occurrence with the given id.
// Returns an UNKNOWN_NODE error if the id is not present.
func (g *Graph) Node(id NodeID) (Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, errors.New(errors.ErrCodeUnknownNode, "node %s is not in the graph", id)
	}
	return *n, nil
}

// DependenciesOf returns the ids of the nodes the given occurrence directly
// depends on, in edge insertion order.
// Returns an UNKNOWN_NODE error if the id is not present.
func (g *Graph) DependenciesOf(id NodeID) ([]NodeID, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, errors.New(errors.ErrCodeUnknownNode, "node %s is not in the graph", id)
	}
	return slices.Clone(g.outgoing[id]), nil
}

// ParentsOf returns the ids of the nodes that directly depend on the given
// occurrence, in edge insertion order.
// Returns an UNKNOWN_NODE error if the id is not present.
func (g *Graph) ParentsOf(id NodeID) ([]NodeID, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, errors.New(errors.ErrCodeUnknownNode, "node %s is not in the graph", id)
	}
	return slices.Clone(g.incoming[id]), nil
}

// Nodes returns all occurrences in storage (insertion) order.
// This is the enumeration order used by the canonical serialization.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, *g.nodes[id])
	}
	return out
}

// DirectDependenciesLeadingTo returns the subset of the root's direct
// dependencies whose forward-reachable subgraph contains at least one
// occurrence of the given package. It answers "which top-level dependency
// pulled this package in".
//
// Returns an UNKNOWN_PACKAGE error if the identity is absent from the
// registry.
func (g *Graph) DirectDependenciesLeadingTo(pkg Package) ([]Occurrence, error) {
	target := pkg.ID()
	if _, ok := g.registry[target]; !ok {
		return nil, errors.New(errors.ErrCodeUnknownPackage, "package %s is not in the graph", pkg)
	}

	var out []Occurrence
	for _, direct := range g.outgoing[g.rootID] {
		if g.subgraphContains(direct, target) {
			n := g.nodes[direct]
			out = append(out, Occurrence{Node: *n, Pkg: g.registry[n.PackageID]})
		}
	}
	return out, nil
}

// subgraphContains reports whether any node reachable from start (inclusive)
// belongs to the target package. Iterative DFS; safe on cyclic graphs.
func (g *Graph) subgraphContains(start NodeID, target PackageID) bool {
	seen := make(map[NodeID]bool)
	stack := []NodeID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		if g.nodes[id].PackageID == target {
			return true
		}
		stack = append(stack, g.outgoing[id]...)
	}
	return false
}
