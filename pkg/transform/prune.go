package transform

import (
	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/errors"
)

// TransitiveReduction returns a copy of the graph without redundant edges.
//
// An edge (u, v) is redundant when u also reaches v through at least one
// intermediate node: if u→w, w→v, and u→v all exist, u→v is removed because
// u reaches v via w. Reduction bounds the blow-up of downstream path
// enumeration while preserving reachability, so every query contract of the
// graph engine holds on the result.
//
// Reduction is defined only for acyclic graphs and returns a
// CYCLIC_GRAPH_UNSUPPORTED error on cyclic input.
//
// Time complexity is O(V²·E) worst case with an O(V²) reachability matrix;
// for the sparse fan-out of typical dependency graphs it behaves closer to
// O(V·E).
func TransitiveReduction(g *depgraph.Graph) (*depgraph.Graph, error) {
	if g.HasCycles() {
		return nil, errors.New(errors.ErrCodeCyclicGraph, "transitive reduction requires an acyclic graph")
	}

	nodes := g.Nodes()
	index := make(map[depgraph.NodeID]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	adjacency := make([][]int, len(nodes))
	for i, n := range nodes {
		deps, _ := g.DependenciesOf(n.ID)
		for _, dep := range deps {
			adjacency[i] = append(adjacency[i], index[dep])
		}
	}

	reachable := computeReachability(adjacency)

	redundant := func(from, to depgraph.NodeID) bool {
		src, dst := index[from], index[to]
		for _, intermediate := range adjacency[src] {
			if intermediate != dst && reachable[intermediate][dst] {
				return true
			}
		}
		return false
	}

	return rebuild(g, func(depgraph.NodeID) bool { return true }, func(from, to depgraph.NodeID) bool {
		return !redundant(from, to)
	})
}

// computeReachability builds the full transitive-closure matrix with an
// iterative DFS per source node.
func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for source := range adjacency {
		reachable[source] = make([]bool, n)
		stack := []int{source}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if reachable[source][current] {
				continue
			}
			reachable[source][current] = true
			stack = append(stack, adjacency[current]...)
		}
	}
	return reachable
}

// LimitDepth returns a copy of the graph containing only nodes within
// maxDepth forward hops of the root (the root itself is depth 0) and the
// edges between them. It bounds the size of path enumerations on deep graphs
// at the cost of dropping the cut-off subtrees.
//
// Returns an INVALID_INPUT error if maxDepth is negative. Safe on cyclic
// graphs: depth is the shortest forward distance from the root.
func LimitDepth(g *depgraph.Graph, maxDepth int) (*depgraph.Graph, error) {
	if maxDepth < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "max depth must not be negative, got %d", maxDepth)
	}

	depth := map[depgraph.NodeID]int{g.RootNodeID(): 0}
	queue := []depgraph.NodeID{g.RootNodeID()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if depth[id] == maxDepth {
			continue
		}
		deps, _ := g.DependenciesOf(id)
		for _, dep := range deps {
			if _, seen := depth[dep]; !seen {
				depth[dep] = depth[id] + 1
				queue = append(queue, dep)
			}
		}
	}

	keep := func(id depgraph.NodeID) bool {
		_, ok := depth[id]
		return ok
	}
	return rebuild(g, keep, func(from, to depgraph.NodeID) bool {
		return keep(from) && keep(to)
	})
}

// rebuild copies g into a fresh graph, keeping the nodes and edges the
// predicates accept. Node ids, infos, package metadata, the package-manager
// descriptor, and the root designation are preserved; registry entries whose
// occurrences were all dropped are dropped too.
func rebuild(g *depgraph.Graph, keepNode func(depgraph.NodeID) bool, keepEdge func(from, to depgraph.NodeID) bool) (*depgraph.Graph, error) {
	b := depgraph.NewBuilder(g.PkgManager())

	kept := make(map[depgraph.NodeID]bool)
	keptPkg := make(map[depgraph.PackageID]bool)
	for _, n := range g.Nodes() {
		if !keepNode(n.ID) {
			continue
		}
		info, err := g.PackageByID(n.PackageID)
		if err != nil {
			return nil, err
		}
		if err := b.AddNodeWithID(n.ID, info.Pkg, n.Info); err != nil {
			return nil, err
		}
		if !keptPkg[n.PackageID] && len(info.Meta) > 0 {
			if err := b.SetPackageMeta(info.Pkg, info.Meta); err != nil {
				return nil, err
			}
		}
		kept[n.ID] = true
		keptPkg[n.PackageID] = true
	}

	for _, n := range g.Nodes() {
		if !kept[n.ID] {
			continue
		}
		deps, _ := g.DependenciesOf(n.ID)
		for _, dep := range deps {
			if !kept[dep] || !keepEdge(n.ID, dep) {
				continue
			}
			if err := b.AddEdge(n.ID, dep); err != nil {
				return nil, err
			}
		}
	}

	if err := b.SetRoot(g.RootNodeID()); err != nil {
		return nil, err
	}
	return b.Build()
}
