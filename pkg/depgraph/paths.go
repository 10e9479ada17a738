package depgraph

import (
	"slices"

	"github.com/depscope/depscope/pkg/errors"
)

// PathsToRoot enumerates every reachability path from each occurrence of the
// given package up to the root, following parent edges. An occurrence with no
// parents contributes the single-element path [pkg]; an occurrence with
// parents contributes, for each parent, [pkg] followed by every path of that
// parent. Paths are concatenated across occurrences and sorted ascending by
// length (the sort is stable, so equal-length paths keep enumeration order).
//
// Structurally identical paths reached via different occurrences are not
// deduplicated. The output size is combinatorial in the number of
// re-converging diamonds; callers needing a bound should use
// [Graph.CountPathsToRoot] or prune the graph first.
//
// Returns an UNKNOWN_PACKAGE error if the identity is absent from the
// registry, or a CYCLIC_GRAPH_UNSUPPORTED error if the graph is cyclic.
func (g *Graph) PathsToRoot(pkg Package) ([]Path, error) {
	id := pkg.ID()
	if _, ok := g.registry[id]; !ok {
		return nil, errors.New(errors.ErrCodeUnknownPackage, "package %s is not in the graph", pkg)
	}
	if g.HasCycles() {
		return nil, errors.New(errors.ErrCodeCyclicGraph, "path enumeration requires an acyclic graph")
	}

	memo := make(map[NodeID][]Path)
	var out []Path
	for _, nid := range g.occurrences[id] {
		out = append(out, g.pathsUpward(nid, memo)...)
	}

	slices.SortStableFunc(out, func(a, b Path) int {
		return len(a) - len(b)
	})
	return out, nil
}

// pathsUpward computes all upward paths for a node with an explicit
// post-order work stack, memoizing per node id. Only valid on acyclic graphs.
func (g *Graph) pathsUpward(start NodeID, memo map[NodeID][]Path) []Path {
	type frame struct {
		id       NodeID
		expanded bool
	}

	stack := []frame{{id: start}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := memo[f.id]; done {
			continue
		}

		parents := g.incoming[f.id]
		if !f.expanded {
			stack = append(stack, frame{id: f.id, expanded: true})
			for _, p := range parents {
				if _, done := memo[p]; !done {
					stack = append(stack, frame{id: p})
				}
			}
			continue
		}

		self := g.registry[g.nodes[f.id].PackageID].Pkg
		if len(parents) == 0 {
			memo[f.id] = []Path{{self}}
			continue
		}

		var paths []Path
		for _, p := range parents {
			for _, parentPath := range memo[p] {
				path := make(Path, 0, len(parentPath)+1)
				path = append(path, self)
				path = append(path, parentPath...)
				paths = append(paths, path)
			}
		}
		memo[f.id] = paths
	}
	return memo[start]
}

// CountPathsToRoot returns the number of paths [Graph.PathsToRoot] would
// enumerate for the package, without materializing them. Counts are computed
// by dynamic programming over the DAG (a parentless node counts 1, any other
// node counts the sum over its parents) and memoized per node id for the
// lifetime of the instance, so the count stays cheap even for packages with
// exponentially many paths.
//
// Returns an UNKNOWN_PACKAGE error if the identity is absent from the
// registry, or a CYCLIC_GRAPH_UNSUPPORTED error if the graph is cyclic.
func (g *Graph) CountPathsToRoot(pkg Package) (int, error) {
	id := pkg.ID()
	if _, ok := g.registry[id]; !ok {
		return 0, errors.New(errors.ErrCodeUnknownPackage, "package %s is not in the graph", pkg)
	}
	if g.HasCycles() {
		return 0, errors.New(errors.ErrCodeCyclicGraph, "path counting requires an acyclic graph")
	}

	counts := g.pathCounts.Load()
	if counts == nil {
		table := g.computePathCounts()
		g.pathCounts.Store(&table)
		counts = &table
	}

	total := 0
	for _, nid := range g.occurrences[id] {
		total += (*counts)[nid]
	}
	return total, nil
}

// computePathCounts fills the count table for every node with an explicit
// post-order work stack. Only valid on acyclic graphs.
func (g *Graph) computePathCounts() map[NodeID]int {
	counts := make(map[NodeID]int, len(g.nodes))
	done := make(map[NodeID]bool, len(g.nodes))

	type frame struct {
		id       NodeID
		expanded bool
	}

	for _, start := range g.nodeOrder {
		if done[start] {
			continue
		}
		stack := []frame{{id: start}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if done[f.id] {
				continue
			}

			parents := g.incoming[f.id]
			if !f.expanded {
				stack = append(stack, frame{id: f.id, expanded: true})
				for _, p := range parents {
					if !done[p] {
						stack = append(stack, frame{id: p})
					}
				}
				continue
			}

			if len(parents) == 0 {
				counts[f.id] = 1
			} else {
				sum := 0
				for _, p := range parents {
					sum += counts[p]
				}
				counts[f.id] = sum
			}
			done[f.id] = true
		}
	}
	return counts
}
