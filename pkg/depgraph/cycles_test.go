package depgraph

import (
	"fmt"
	"testing"
)

func TestHasCycles(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *Graph
		want  bool
	}{
		{
			name: "SingleNode",
			build: func(t *testing.T) *Graph {
				return mustGraph(t, "a", map[string]Package{"a": {Name: "app", Version: "1"}})
			},
			want: false,
		},
		{
			name: "Chain",
			build: func(t *testing.T) *Graph {
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "app", Version: "1"},
						"b": {Name: "b", Version: "1"},
						"c": {Name: "c", Version: "1"},
					},
					[2]string{"a", "b"}, [2]string{"b", "c"},
				)
			},
			want: false,
		},
		{
			name:  "DiamondIsAcyclic",
			build: diamond,
			want:  false,
		},
		{
			name: "TwoNodeCycle",
			build: func(t *testing.T) *Graph {
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "app", Version: "1"},
						"b": {Name: "b", Version: "1"},
						"c": {Name: "c", Version: "1"},
					},
					[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "b"},
				)
			},
			want: true,
		},
		{
			name: "DeepBackEdge",
			build: func(t *testing.T) *Graph {
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "app", Version: "1"},
						"b": {Name: "b", Version: "1"},
						"c": {Name: "c", Version: "1"},
						"d": {Name: "d", Version: "1"},
					},
					[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "d"}, [2]string{"d", "b"},
				)
			},
			want: true,
		},
		{
			name: "CycleUnreachableFromRoot",
			build: func(t *testing.T) *Graph {
				// Detection covers the whole node set, not just the root's
				// forward closure.
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "app", Version: "1"},
						"x": {Name: "x", Version: "1"},
						"y": {Name: "y", Version: "1"},
					},
					[2]string{"x", "y"}, [2]string{"y", "x"},
				)
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build(t)
			if got := g.HasCycles(); got != tt.want {
				t.Errorf("HasCycles() = %v, want %v", got, tt.want)
			}
			// Memoized second call must agree.
			if got := g.HasCycles(); got != tt.want {
				t.Errorf("HasCycles() second call = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasCyclesDeepChain(t *testing.T) {
	// A long linear chain exercises the explicit work stack; a recursive
	// implementation would be at risk of exhausting the goroutine stack here.
	const depth = 50_000

	b := NewBuilder("npm")
	prev := NodeID("")
	for i := 0; i < depth; i++ {
		id := NodeID(fmt.Sprintf("n%d", i))
		if err := b.AddNodeWithID(id, Package{Name: fmt.Sprintf("pkg%d", i), Version: "1"}, nil); err != nil {
			t.Fatalf("AddNodeWithID: %v", err)
		}
		if prev != "" {
			if err := b.AddEdge(prev, id); err != nil {
				t.Fatalf("AddEdge: %v", err)
			}
		}
		prev = id
	}
	if err := b.SetRoot("n0"); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.HasCycles() {
		t.Error("HasCycles() = true for a linear chain")
	}
}
