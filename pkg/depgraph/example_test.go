package depgraph_test

import (
	"fmt"

	"github.com/depscope/depscope/pkg/depgraph"
)

func ExampleBuilder() {
	// Build a diamond: app depends on left and right, both depend on shared.
	b := depgraph.NewBuilder("npm")
	app, _ := b.AddNode(depgraph.Package{Name: "app", Version: "1.0.0"}, nil)
	left, _ := b.AddNode(depgraph.Package{Name: "left", Version: "2.0.0"}, nil)
	right, _ := b.AddNode(depgraph.Package{Name: "right", Version: "3.0.0"}, nil)
	shared, _ := b.AddNode(depgraph.Package{Name: "shared", Version: "4.17.21"}, nil)
	_ = b.AddEdge(app, left)
	_ = b.AddEdge(app, right)
	_ = b.AddEdge(left, shared)
	_ = b.AddEdge(right, shared)
	_ = b.SetRoot(app)

	g, _ := b.Build()
	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Cyclic:", g.HasCycles())
	// Output:
	// Nodes: 4
	// Edges: 4
	// Cyclic: false
}

func ExampleGraph_CountPathsToRoot() {
	b := depgraph.NewBuilder("npm")
	app, _ := b.AddNode(depgraph.Package{Name: "app", Version: "1.0.0"}, nil)
	left, _ := b.AddNode(depgraph.Package{Name: "left", Version: "2.0.0"}, nil)
	right, _ := b.AddNode(depgraph.Package{Name: "right", Version: "3.0.0"}, nil)
	shared, _ := b.AddNode(depgraph.Package{Name: "shared", Version: "4.17.21"}, nil)
	_ = b.AddEdge(app, left)
	_ = b.AddEdge(app, right)
	_ = b.AddEdge(left, shared)
	_ = b.AddEdge(right, shared)
	_ = b.SetRoot(app)
	g, _ := b.Build()

	count, _ := g.CountPathsToRoot(depgraph.Package{Name: "shared", Version: "4.17.21"})
	fmt.Println("Paths to root:", count)
	// Output:
	// Paths to root: 2
}
