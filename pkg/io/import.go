package io

import (
	"fmt"
	"io"
	"os"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/document"
)

// ReadJSON decodes a serialized dependency graph from r.
//
// Both the current schema-versioned document and the legacy flat node/edge
// format are accepted; the format is sniffed from the payload. Errors carry
// the structured codes from the document package (INCOMPATIBLE_SCHEMA,
// MALFORMED_DOCUMENT).
//
// The returned graph is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*depgraph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if document.IsLegacy(data) {
		return document.UnmarshalLegacy(data)
	}
	return document.Unmarshal(data)
}

// ImportJSON reads a graph file at path and returns the decoded graph.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (*depgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return g, nil
}
