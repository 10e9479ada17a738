package document_test

import (
	"fmt"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/document"
)

func Example() {
	b := depgraph.NewBuilder("npm")
	app, _ := b.AddNode(depgraph.Package{Name: "app", Version: "1.0.0"}, nil)
	lib, _ := b.AddNode(depgraph.Package{Name: "left-pad", Version: "1.3.0"}, nil)
	_ = b.AddEdge(app, lib)
	_ = b.SetRoot(app)
	g, _ := b.Build()

	data, _ := document.Marshal(g)
	restored, _ := document.Unmarshal(data)

	fmt.Println("Equal:", g.Equals(restored, depgraph.EqualOptions{}))
	fmt.Println("Manager:", restored.PkgManager())
	// Output:
	// Equal: true
	// Manager: npm
}
