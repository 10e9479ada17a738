package depgraph

// HasCycles reports whether the graph contains a directed cycle.
//
// Detection uses depth-first search with white/gray/black coloring over the
// full node set, implemented with an explicit stack so deep graphs cannot
// exhaust the goroutine stack. The result is memoized: the first call costs
// O(V+E), subsequent calls return the published flag.
func (g *Graph) HasCycles() bool {
	if cached := g.cyclic.Load(); cached != nil {
		return *cached
	}
	result := g.detectCycles()
	g.cyclic.Store(&result)
	return result
}

func (g *Graph) detectCycles() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int, len(g.nodes))

	// Each frame visits a node twice: once to mark it gray and push its
	// children, once (post) to mark it black.
	type frame struct {
		id   NodeID
		post bool
	}

	for _, start := range g.nodeOrder {
		if color[start] != white {
			continue
		}
		stack := []frame{{id: start}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.post {
				color[f.id] = black
				continue
			}
			if color[f.id] == black {
				continue
			}
			color[f.id] = gray
			stack = append(stack, frame{id: f.id, post: true})
			for _, child := range g.outgoing[f.id] {
				switch color[child] {
				case white:
					stack = append(stack, frame{id: child})
				case gray:
					return true
				}
			}
		}
	}
	return false
}
