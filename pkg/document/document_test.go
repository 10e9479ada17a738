package document

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/errors"
)

// sampleGraph builds a diamond with metadata on packages and nodes.
func sampleGraph(t *testing.T) *depgraph.Graph {
	t.Helper()

	b := depgraph.NewBuilder("npm")
	add := func(id string, pkg depgraph.Package, info depgraph.NodeInfo) {
		t.Helper()
		if err := b.AddNodeWithID(depgraph.NodeID(id), pkg, info); err != nil {
			t.Fatalf("AddNodeWithID(%s): %v", id, err)
		}
	}
	add("a", depgraph.Package{Name: "app", Version: "1.0.0"}, nil)
	add("b", depgraph.Package{Name: "left", Version: "2.1.0"}, depgraph.NodeInfo{"scope": "main"})
	add("c", depgraph.Package{Name: "right", Version: "0.5.0"}, nil)
	add("d", depgraph.Package{Name: "shared", Version: "4.17.21"}, nil)
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		if err := b.AddEdge(depgraph.NodeID(e[0]), depgraph.NodeID(e[1])); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	if err := b.SetPackageMeta(depgraph.Package{Name: "shared", Version: "4.17.21"}, depgraph.Metadata{"license": "MIT"}); err != nil {
		t.Fatalf("SetPackageMeta: %v", err)
	}
	if err := b.SetRoot("a"); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestRoundTrip(t *testing.T) {
	g := sampleGraph(t)

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	restored, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !g.Equals(restored, depgraph.EqualOptions{}) {
		t.Error("restored graph is not equal to the original")
	}
	if restored.PkgManager() != "npm" {
		t.Errorf("PkgManager = %q, want npm", restored.PkgManager())
	}

	occ, err := restored.OccurrencesOf(depgraph.Package{Name: "shared", Version: "4.17.21"})
	if err != nil {
		t.Fatalf("OccurrencesOf: %v", err)
	}
	if occ[0].Pkg.Meta["license"] != "MIT" {
		t.Errorf("restored package meta license = %v, want MIT", occ[0].Pkg.Meta["license"])
	}
}

func TestRoundTripNonStringMetadata(t *testing.T) {
	// Numbers, booleans, lists, and nested maps decode into JSON's generic
	// types (float64, []any, map[string]any); the restored graph must still
	// compare equal to the one built from native Go values.
	b := depgraph.NewBuilder("npm")
	info := depgraph.NodeInfo{
		"depth":    1,
		"dev":      true,
		"tags":     []string{"direct", "prod"},
		"resolved": map[string]any{"attempts": 2, "pinned": false},
	}
	if err := b.AddNodeWithID("a", depgraph.Package{Name: "app", Version: "1.0.0"}, nil); err != nil {
		t.Fatalf("AddNodeWithID(a): %v", err)
	}
	if err := b.AddNodeWithID("b", depgraph.Package{Name: "lib", Version: "2.0.0"}, info); err != nil {
		t.Fatalf("AddNodeWithID(b): %v", err)
	}
	if err := b.AddEdge("a", "b"); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := b.SetPackageMeta(depgraph.Package{Name: "lib", Version: "2.0.0"}, depgraph.Metadata{"stars": 42}); err != nil {
		t.Fatalf("SetPackageMeta: %v", err)
	}
	if err := b.SetRoot("a"); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	restored, err := Unmarshal(mustMarshal(t, g))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !g.Equals(restored, depgraph.EqualOptions{}) {
		t.Error("restored graph is not equal to the original")
	}
	if !restored.Equals(g, depgraph.EqualOptions{}) {
		t.Error("reverse Equals = false after round trip")
	}

	n, err := restored.Node("b")
	if err != nil {
		t.Fatalf("Node(b): %v", err)
	}
	if got := n.Info["depth"]; got != float64(1) {
		t.Errorf("restored depth = %v (%T), want float64(1)", got, got)
	}
	occ, err := restored.OccurrencesOf(depgraph.Package{Name: "lib", Version: "2.0.0"})
	if err != nil {
		t.Fatalf("OccurrencesOf: %v", err)
	}
	if got := occ[0].Pkg.Meta["stars"]; got != float64(42) {
		t.Errorf("restored stars = %v (%T), want float64(42)", got, got)
	}
}

func TestRoundTripPreservesNodeIDs(t *testing.T) {
	g := sampleGraph(t)

	restored, err := Unmarshal(mustMarshal(t, g))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if restored.RootNodeID() != g.RootNodeID() {
		t.Errorf("root id = %s, want %s", restored.RootNodeID(), g.RootNodeID())
	}
	if _, err := restored.Node("d"); err != nil {
		t.Errorf("Node(d): %v", err)
	}
}

func TestDocumentShape(t *testing.T) {
	g := sampleGraph(t)
	doc := FromGraph(g)

	if doc.SchemaVersion != SchemaVersion {
		t.Errorf("schemaVersion = %q, want %q", doc.SchemaVersion, SchemaVersion)
	}
	if len(doc.Pkgs) != 4 {
		t.Errorf("pkgs = %d, want 4", len(doc.Pkgs))
	}
	if len(doc.Graph.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(doc.Graph.Nodes))
	}

	// Only successors are stored; reverse edges are derived on load.
	totalDeps := 0
	for _, n := range doc.Graph.Nodes {
		totalDeps += len(n.Deps)
	}
	if totalDeps != 4 {
		t.Errorf("stored dep refs = %d, want 4", totalDeps)
	}

	// Empty node info is omitted from the JSON entirely.
	data := mustMarshal(t, g)
	var raw struct {
		Graph struct {
			Nodes []map[string]json.RawMessage `json:"nodes"`
		} `json:"graph"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	withInfo := 0
	for _, n := range raw.Graph.Nodes {
		if _, ok := n["info"]; ok {
			withInfo++
		}
	}
	if withInfo != 1 {
		t.Errorf("nodes with info field = %d, want 1", withInfo)
	}
}

func TestRoundTripZeroOccurrencePackage(t *testing.T) {
	// A registry entry can exist without any occurrence; it must survive
	// serialization.
	b := depgraph.NewBuilder("npm")
	if err := b.RegisterPackage(depgraph.Package{Name: "advisory-only", Version: "1"}, depgraph.Metadata{"cve": "CVE-2024-0001"}); err != nil {
		t.Fatalf("RegisterPackage: %v", err)
	}
	if err := b.AddNodeWithID("a", depgraph.Package{Name: "app", Version: "1"}, nil); err != nil {
		t.Fatalf("AddNodeWithID: %v", err)
	}
	if err := b.SetRoot("a"); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	restored, err := Unmarshal(mustMarshal(t, g))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	occ, err := restored.OccurrencesOf(depgraph.Package{Name: "advisory-only", Version: "1"})
	if err != nil {
		t.Fatalf("OccurrencesOf: %v", err)
	}
	if len(occ) != 0 {
		t.Errorf("occurrences = %d, want 0", len(occ))
	}
}

func TestSchemaVersionCheck(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr errors.Code
	}{
		{"Current", SchemaVersion, ""},
		{"SameMajorNewerMinor", "1.9.0", ""},
		{"MajorTwo", "2.0.0", errors.ErrCodeIncompatibleSchema},
		{"MajorZero", "0.9.0", errors.ErrCodeIncompatibleSchema},
		{"Unparsable", "abc", errors.ErrCodeIncompatibleSchema},
		{"Empty", "", errors.ErrCodeMalformedDocument},
	}

	g := sampleGraph(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := FromGraph(g)
			doc.SchemaVersion = tt.version
			_, err := doc.ToGraph()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ToGraph: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %s", err, tt.wantErr)
			}
		})
	}
}

func TestToGraphMalformed(t *testing.T) {
	g := sampleGraph(t)

	tests := []struct {
		name   string
		mutate func(doc *Document)
	}{
		{
			name: "UnlistedPackage",
			mutate: func(doc *Document) {
				doc.Graph.Nodes[0].PkgID = "ghost@1"
			},
		},
		{
			name: "DepToMissingNode",
			mutate: func(doc *Document) {
				doc.Graph.Nodes[0].Deps = append(doc.Graph.Nodes[0].Deps, DepRef{NodeID: "ghost"})
			},
		},
		{
			name: "MismatchedPackageEntry",
			mutate: func(doc *Document) {
				doc.Pkgs[0].ID = "other@9"
			},
		},
		{
			name: "NoRoot",
			mutate: func(doc *Document) {
				doc.Graph.RootNodeID = ""
			},
		},
		{
			name: "UnknownRoot",
			mutate: func(doc *Document) {
				doc.Graph.RootNodeID = "ghost"
			},
		},
		{
			name: "DuplicateNodeID",
			mutate: func(doc *Document) {
				doc.Graph.Nodes[1].NodeID = doc.Graph.Nodes[0].NodeID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := FromGraph(g)
			tt.mutate(&doc)
			_, err := doc.ToGraph()
			if !errors.Is(err, errors.ErrCodeMalformedDocument) {
				t.Errorf("error = %v, want MALFORMED_DOCUMENT", err)
			}
		})
	}
}

func TestReadInvalidJSON(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	if !errors.Is(err, errors.ErrCodeMalformedDocument) {
		t.Errorf("error = %v, want MALFORMED_DOCUMENT", err)
	}
}

func mustMarshal(t *testing.T, g *depgraph.Graph) []byte {
	t.Helper()
	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}
