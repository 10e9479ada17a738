// Package render draws dependency graphs as DOT, SVG, or PNG node-link
// diagrams via Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/depscope/depscope/pkg/depgraph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node ids and occurrence info in node labels.
	// When false, only the package identity is shown.
	Detailed bool
}

// ToDOT converts a dependency graph to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
//
// Each node occurrence becomes one DOT node labeled with its package
// identity; the root is drawn with a doubled outline so the entry point is
// visible at a glance.
func ToDOT(g *depgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(g, n, opts.Detailed)
		attrs := fmtAttrs(n, g.RootNodeID(), label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		deps, _ := g.DependenciesOf(n.ID)
		for _, dep := range deps {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *depgraph.Graph, n depgraph.Node, detailed bool) string {
	info, err := g.PackageByID(n.PackageID)
	if err != nil {
		return string(n.PackageID)
	}
	label := info.Pkg.String()
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nnode: %s", label, n.ID)
}

func fmtAttrs(n depgraph.Node, root depgraph.NodeID, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.ID == root {
		attrs = append(attrs, "peripheries=2", "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
