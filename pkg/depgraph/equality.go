package depgraph

import (
	"bytes"
	"encoding/json"
	"reflect"
	"slices"
	"strings"
)

// View is the read-only query contract a value must satisfy to be compared
// with [Graph.Equals]. *Graph implements View natively; graphs produced by
// other toolchains are compared by deserializing their canonical document
// into a *Graph first, so equality is defined over the public query surface
// rather than over a concrete internal representation.
type View interface {
	RootNodeID() NodeID
	Node(id NodeID) (Node, error)
	DependenciesOf(id NodeID) ([]NodeID, error)
}

var _ View = (*Graph)(nil)

// EqualOptions configures [Graph.Equals]. The zero value compares the full
// graph including the root pair.
type EqualOptions struct {
	// IgnoreRoot skips the package-identity and node-info comparison for the
	// two root nodes themselves. Their dependency subtrees are still compared
	// in full. Useful when comparing the dependency closure of two projects
	// whose own name or version differs.
	IgnoreRoot bool
}

// Equals reports deep structural equality between this graph and another
// graph view via recursive co-traversal starting at the two roots.
//
// For every visited node pair (except the roots when opts.IgnoreRoot is set)
// the package identity and node info must match exactly, the two dependency
// lists must have the same cardinality, and the lists — each sorted by the
// lexical order of the dependency's PackageID to obtain a deterministic
// pairing — must be pairwise equal.
//
// A revisited (nodeA, nodeB) pair is treated as trivially equal and not
// re-descended. This keeps the co-traversal finite on cyclic graphs but only
// verifies equality up to the first encounter inside a cycle; full
// cycle-aware equality is deliberately not claimed.
//
// Equals never fails: any structural mismatch, including inconsistent views,
// yields false.
func (g *Graph) Equals(other View, opts EqualOptions) bool {
	if isNilView(other) {
		return false
	}

	type pair struct{ a, b NodeID }
	type task struct {
		a, b   NodeID
		isRoot bool
	}

	visited := make(map[pair]bool)
	stack := []task{{a: g.rootID, b: other.RootNodeID(), isRoot: true}}

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p := pair{t.a, t.b}
		if visited[p] {
			continue
		}
		visited[p] = true

		na, err := g.Node(t.a)
		if err != nil {
			return false
		}
		nb, err := other.Node(t.b)
		if err != nil {
			return false
		}

		if !t.isRoot || !opts.IgnoreRoot {
			if na.PackageID != nb.PackageID {
				return false
			}
			if !infoEqual(na.Info, nb.Info) {
				return false
			}
		}

		depsA, err := g.DependenciesOf(t.a)
		if err != nil {
			return false
		}
		depsB, err := other.DependenciesOf(t.b)
		if err != nil {
			return false
		}
		if len(depsA) != len(depsB) {
			return false
		}

		if !sortByPackageID(g, depsA) || !sortByPackageID(other, depsB) {
			return false
		}
		for i := range depsA {
			stack = append(stack, task{a: depsA[i], b: depsB[i]})
		}
	}
	return true
}

// sortByPackageID sorts node ids by the lexical order of their PackageID.
// Reports false if any id cannot be resolved through the view.
func sortByPackageID(v View, ids []NodeID) bool {
	keys := make(map[NodeID]PackageID, len(ids))
	for _, id := range ids {
		n, err := v.Node(id)
		if err != nil {
			return false
		}
		keys[id] = n.PackageID
	}
	slices.SortFunc(ids, func(a, b NodeID) int {
		return strings.Compare(string(keys[a]), string(keys[b]))
	})
	return true
}

// isNilView catches both a nil interface and a typed nil inside the
// interface, such as (*Graph)(nil) passed as a View.
func isNilView(v View) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// infoEqual compares node info maps, treating nil and empty as equal since
// empty info is omitted from serialized documents. Maps are compared on
// their canonical JSON encoding so that a graph built in memory stays equal
// to its own serialized round trip: json.Marshal keys maps in sorted order,
// and values that decode differently than they were built (int vs float64,
// []string vs []any) still encode to identical bytes.
func infoEqual(a, b NodeInfo) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		// Non-JSON-representable values fall back to structural comparison.
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ja, jb)
}
