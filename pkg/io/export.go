package io

import (
	"fmt"
	"io"
	"os"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/document"
)

// WriteJSON encodes a graph as a canonical document and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *depgraph.Graph, w io.Writer) error {
	return document.Write(g, w)
}

// ExportJSON writes a graph to a canonical JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *depgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
