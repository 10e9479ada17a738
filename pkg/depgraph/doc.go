// Package depgraph models a software package's dependency relationships as
// an immutable graph of package occurrences and provides the query surface
// consumed by composition-analysis tooling.
//
// # Model
//
// A package identity is a name plus an optional version ([Package]); the same
// identity may occur at several graph positions ([Node]), because diamond
// dependencies and multiple resolved versions give one package many
// occurrences. Edges are directed, "from directly depends on to", and the
// graph has a designated root node representing the analyzed project.
//
// # Construction and queries
//
// A [Graph] is produced once — by a [Builder] or by deserializing a canonical
// document (package document) — and is immutable afterwards. Queries cover
// node and package lookups, cycle detection, upward path enumeration and
// counting, subtree containment, and deep structural equality across graph
// instances:
//
//	b := depgraph.NewBuilder("npm")
//	root, _ := b.AddNode(depgraph.Package{Name: "app", Version: "1.0.0"}, nil)
//	dep, _ := b.AddNode(depgraph.Package{Name: "left-pad", Version: "1.3.0"}, nil)
//	b.AddEdge(root, dep)
//	b.SetRoot(root)
//	g, err := b.Build()
//
//	paths, err := g.PathsToRoot(depgraph.Package{Name: "left-pad", Version: "1.3.0"})
//
// # Cycles
//
// The graph may be cyclic. [Graph.HasCycles] is always defined; the upward
// path queries are defined only for acyclic graphs and fail with a
// CYCLIC_GRAPH_UNSUPPORTED error otherwise rather than degrading silently.
//
// # Concurrency
//
// All queries are safe for concurrent use. The two lazily-computed caches
// (cycle flag, path-count table) are published atomically after being
// computed in full; redundant recomputation under contention is harmless
// because the graph never changes.
package depgraph
