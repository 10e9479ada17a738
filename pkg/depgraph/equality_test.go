package depgraph

import "testing"

func TestEquals(t *testing.T) {
	base := func(t *testing.T) *Graph { return diamond(t) }

	tests := []struct {
		name  string
		other func(t *testing.T) *Graph
		opts  EqualOptions
		want  bool
	}{
		{
			name:  "Identical",
			other: base,
			want:  true,
		},
		{
			name: "DifferentNodeIDs",
			other: func(t *testing.T) *Graph {
				// Same structure under fresh ids; equality ignores ids.
				return mustGraph(t, "w",
					map[string]Package{
						"w": {Name: "app", Version: "1.0.0"},
						"x": {Name: "left", Version: "2.1.0"},
						"y": {Name: "right", Version: "0.5.0"},
						"z": {Name: "shared", Version: "4.17.21"},
					},
					[2]string{"w", "x"}, [2]string{"w", "y"},
					[2]string{"x", "z"}, [2]string{"y", "z"},
				)
			},
			want: true,
		},
		{
			name: "DifferentEdgeInsertionOrder",
			other: func(t *testing.T) *Graph {
				// Children pair by package key order, not insertion order.
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "app", Version: "1.0.0"},
						"b": {Name: "left", Version: "2.1.0"},
						"c": {Name: "right", Version: "0.5.0"},
						"d": {Name: "shared", Version: "4.17.21"},
					},
					[2]string{"a", "c"}, [2]string{"a", "b"},
					[2]string{"c", "d"}, [2]string{"b", "d"},
				)
			},
			want: true,
		},
		{
			name: "DifferentVersion",
			other: func(t *testing.T) *Graph {
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "app", Version: "1.0.0"},
						"b": {Name: "left", Version: "2.1.0"},
						"c": {Name: "right", Version: "0.5.0"},
						"d": {Name: "shared", Version: "4.17.22"},
					},
					[2]string{"a", "b"}, [2]string{"a", "c"},
					[2]string{"b", "d"}, [2]string{"c", "d"},
				)
			},
			want: false,
		},
		{
			name: "MissingEdge",
			other: func(t *testing.T) *Graph {
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "app", Version: "1.0.0"},
						"b": {Name: "left", Version: "2.1.0"},
						"c": {Name: "right", Version: "0.5.0"},
						"d": {Name: "shared", Version: "4.17.21"},
					},
					[2]string{"a", "b"}, [2]string{"a", "c"},
					[2]string{"b", "d"},
				)
			},
			want: false,
		},
		{
			name: "ExtraDependency",
			other: func(t *testing.T) *Graph {
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "app", Version: "1.0.0"},
						"b": {Name: "left", Version: "2.1.0"},
						"c": {Name: "right", Version: "0.5.0"},
						"d": {Name: "shared", Version: "4.17.21"},
						"e": {Name: "extra", Version: "1.0.0"},
					},
					[2]string{"a", "b"}, [2]string{"a", "c"},
					[2]string{"b", "d"}, [2]string{"c", "d"},
					[2]string{"b", "e"},
				)
			},
			want: false,
		},
		{
			name: "DifferentRoot",
			other: func(t *testing.T) *Graph {
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "renamed-app", Version: "9.0.0"},
						"b": {Name: "left", Version: "2.1.0"},
						"c": {Name: "right", Version: "0.5.0"},
						"d": {Name: "shared", Version: "4.17.21"},
					},
					[2]string{"a", "b"}, [2]string{"a", "c"},
					[2]string{"b", "d"}, [2]string{"c", "d"},
				)
			},
			want: false,
		},
		{
			name: "DifferentRootIgnored",
			other: func(t *testing.T) *Graph {
				return mustGraph(t, "a",
					map[string]Package{
						"a": {Name: "renamed-app", Version: "9.0.0"},
						"b": {Name: "left", Version: "2.1.0"},
						"c": {Name: "right", Version: "0.5.0"},
						"d": {Name: "shared", Version: "4.17.21"},
					},
					[2]string{"a", "b"}, [2]string{"a", "c"},
					[2]string{"b", "d"}, [2]string{"c", "d"},
				)
			},
			opts: EqualOptions{IgnoreRoot: true},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := base(t)
			b := tt.other(t)
			if got := a.Equals(b, tt.opts); got != tt.want {
				t.Errorf("Equals = %v, want %v", got, tt.want)
			}
			// Full-graph equality is symmetric.
			if !tt.opts.IgnoreRoot {
				if got := b.Equals(a, tt.opts); got != tt.want {
					t.Errorf("reverse Equals = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestEqualsNil(t *testing.T) {
	g := diamond(t)
	if g.Equals(nil, EqualOptions{}) {
		t.Error("Equals(nil) = true, want false")
	}
	// A typed nil inside the interface must not panic either.
	if g.Equals((*Graph)(nil), EqualOptions{}) {
		t.Error("Equals((*Graph)(nil)) = true, want false")
	}
}

func TestEqualsSelf(t *testing.T) {
	g := diamond(t)
	if !g.Equals(g, EqualOptions{}) {
		t.Error("Equals(self) = false, want true")
	}
}

func TestEqualsNodeInfo(t *testing.T) {
	build := func(info NodeInfo) func(t *testing.T) *Graph {
		return func(t *testing.T) *Graph {
			t.Helper()
			b := NewBuilder("npm")
			if err := b.AddNodeWithID("a", Package{Name: "app", Version: "1"}, nil); err != nil {
				t.Fatal(err)
			}
			if err := b.AddNodeWithID("b", Package{Name: "lib", Version: "1"}, info); err != nil {
				t.Fatal(err)
			}
			if err := b.AddEdge("a", "b"); err != nil {
				t.Fatal(err)
			}
			if err := b.SetRoot("a"); err != nil {
				t.Fatal(err)
			}
			g, err := b.Build()
			if err != nil {
				t.Fatal(err)
			}
			return g
		}
	}

	t.Run("DifferentInfo", func(t *testing.T) {
		a := build(NodeInfo{"scope": "main"})(t)
		b := build(NodeInfo{"scope": "dev"})(t)
		if a.Equals(b, EqualOptions{}) {
			t.Error("Equals = true for differing node info")
		}
	})

	t.Run("NumericTypeNormalized", func(t *testing.T) {
		// JSON decoding turns int-valued info into float64; the two must still
		// compare equal or a graph would differ from its own round trip.
		a := build(NodeInfo{"depth": 1})(t)
		b := build(NodeInfo{"depth": float64(1)})(t)
		if !a.Equals(b, EqualOptions{}) {
			t.Error("Equals = false for int vs float64 node info")
		}
	})

	t.Run("NestedValuesNormalized", func(t *testing.T) {
		a := build(NodeInfo{"dev": true, "tags": []string{"x", "y"}, "meta": map[string]any{"n": 2}})(t)
		b := build(NodeInfo{"dev": true, "tags": []any{"x", "y"}, "meta": map[string]any{"n": float64(2)}})(t)
		if !a.Equals(b, EqualOptions{}) {
			t.Error("Equals = false for decoded-form nested node info")
		}
	})

	t.Run("DifferentNumericValue", func(t *testing.T) {
		a := build(NodeInfo{"depth": 1})(t)
		b := build(NodeInfo{"depth": 2})(t)
		if a.Equals(b, EqualOptions{}) {
			t.Error("Equals = true for differing numeric node info")
		}
	})

	t.Run("NilVersusEmpty", func(t *testing.T) {
		// Empty info is omitted from documents, so nil and empty must compare
		// equal or round trips would break equality.
		a := build(nil)(t)
		b := build(NodeInfo{})(t)
		if !a.Equals(b, EqualOptions{}) {
			t.Error("Equals = false for nil vs empty node info")
		}
	})
}

func TestEqualsCyclicGraphsTerminate(t *testing.T) {
	cyclic := func(t *testing.T) *Graph {
		return mustGraph(t, "a",
			map[string]Package{
				"a": {Name: "app", Version: "1"},
				"b": {Name: "b", Version: "1"},
				"c": {Name: "c", Version: "1"},
			},
			[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "b"},
		)
	}

	a := cyclic(t)
	b := cyclic(t)
	if !a.Equals(b, EqualOptions{}) {
		t.Error("Equals = false for identical cyclic graphs")
	}
}

func TestEqualsVersionSplitDistinguished(t *testing.T) {
	split := mustGraph(t, "a",
		map[string]Package{
			"a": {Name: "app", Version: "1"},
			"b": {Name: "left", Version: "1"},
			"c": {Name: "right", Version: "1"},
			"d": {Name: "shared", Version: "1.0.0"},
			"e": {Name: "shared", Version: "2.0.0"},
		},
		[2]string{"a", "b"}, [2]string{"a", "c"},
		[2]string{"b", "d"}, [2]string{"c", "e"},
	)
	shared := mustGraph(t, "a",
		map[string]Package{
			"a": {Name: "app", Version: "1"},
			"b": {Name: "left", Version: "1"},
			"c": {Name: "right", Version: "1"},
			"d": {Name: "shared", Version: "1.0.0"},
		},
		[2]string{"a", "b"}, [2]string{"a", "c"},
		[2]string{"b", "d"}, [2]string{"c", "d"},
	)

	if split.Equals(shared, EqualOptions{}) {
		t.Error("Equals = true for version-split vs shared dependency")
	}
}
