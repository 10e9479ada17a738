package document

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/errors"
)

// The legacy "flat" format predates the schema-versioned document: a plain
// node/edge list where a node id doubles as the package name and the version
// lives in the metadata map. It carries no package registry, no explicit
// root, and no schema version.

type legacyGraph struct {
	Nodes []legacyNode `json:"nodes"`
	Edges []legacyEdge `json:"edges"`
}

type legacyNode struct {
	ID   string         `json:"id"`
	Meta map[string]any `json:"meta,omitempty"`
}

type legacyEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// IsLegacy reports whether the JSON bytes look like the legacy flat format:
// a top-level object with a "nodes" array and no "schemaVersion" field.
func IsLegacy(data []byte) bool {
	var probe struct {
		SchemaVersion *string         `json:"schemaVersion"`
		Nodes         json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.SchemaVersion == nil && len(probe.Nodes) > 0
}

// ReadLegacy decodes a legacy flat graph from r and migrates it into a
// graph in the current model.
//
// Migration rules:
//   - A node id becomes the package name; a "version" string in its metadata
//     becomes the package version and the remaining metadata becomes the
//     package registry entry. Each legacy node yields one occurrence.
//   - The single node with no incoming edges becomes the root. Zero or
//     several such nodes make the document ambiguous and yield a
//     MALFORMED_DOCUMENT error, as do edges referencing unknown ids.
func ReadLegacy(r io.Reader) (*depgraph.Graph, error) {
	var data legacyGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "decode legacy graph")
	}

	b := depgraph.NewBuilder("")
	ids := make(map[string]depgraph.NodeID, len(data.Nodes))
	hasParent := make(map[string]bool)

	for _, n := range data.Nodes {
		if _, dup := ids[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeMalformedDocument, "duplicate legacy node %q", n.ID)
		}
		pkg, meta := legacyPackage(n)
		id, err := b.AddNode(pkg, nil)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "legacy node %q", n.ID)
		}
		if len(meta) > 0 {
			if err := b.SetPackageMeta(pkg, meta); err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "legacy node %q", n.ID)
			}
		}
		ids[n.ID] = id
	}

	for _, e := range data.Edges {
		from, okF := ids[e.From]
		to, okT := ids[e.To]
		if !okF || !okT {
			return nil, errors.New(errors.ErrCodeMalformedDocument,
				"legacy edge %s->%s references an unknown node", e.From, e.To)
		}
		if err := b.AddEdge(from, to); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "legacy edge %s->%s", e.From, e.To)
		}
		hasParent[e.To] = true
	}

	var root depgraph.NodeID
	roots := 0
	for _, n := range data.Nodes {
		if !hasParent[n.ID] {
			root = ids[n.ID]
			roots++
		}
	}
	if roots != 1 {
		return nil, errors.New(errors.ErrCodeMalformedDocument,
			"legacy graph has %d root candidates, want exactly 1", roots)
	}
	if err := b.SetRoot(root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "legacy root")
	}

	g, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "finalize legacy graph")
	}
	return g, nil
}

// UnmarshalLegacy decodes legacy flat JSON bytes into a graph.
func UnmarshalLegacy(data []byte) (*depgraph.Graph, error) {
	return ReadLegacy(bytes.NewReader(data))
}

// legacyPackage splits a legacy node into a package identity and the
// metadata left over after extracting the version.
func legacyPackage(n legacyNode) (depgraph.Package, depgraph.Metadata) {
	pkg := depgraph.Package{Name: n.ID}
	var meta depgraph.Metadata
	for k, v := range n.Meta {
		if k == "version" {
			if s, ok := v.(string); ok {
				pkg.Version = s
				continue
			}
		}
		if meta == nil {
			meta = depgraph.Metadata{}
		}
		meta[k] = v
	}
	return pkg, meta
}
