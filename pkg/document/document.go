package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/errors"
)

// SchemaVersion is the version tag written into serialized documents.
// Consumers accept documents whose major component matches [SupportedMajor];
// mismatched majors are rejected.
const SchemaVersion = "1.0.0"

// SupportedMajor is the major schema version this package can deserialize.
const SupportedMajor = 1

// Document is the canonical serialization format for dependency graphs.
// Used for CLI files, API responses, and storage. The format is designed for
// round-trip fidelity: deserializing a document produced by [FromGraph]
// yields a graph that compares Equals-true to the original.
type Document struct {
	SchemaVersion string         `json:"schemaVersion" bson:"schemaVersion"`
	PkgManager    string         `json:"pkgManager" bson:"pkgManager"`
	Pkgs          []PackageEntry `json:"pkgs" bson:"pkgs"`
	Graph         GraphDoc       `json:"graph" bson:"graph"`
}

// PackageEntry is one registry entry: the canonical package key and its info.
type PackageEntry struct {
	ID   depgraph.PackageID   `json:"id" bson:"id"`
	Info depgraph.PackageInfo `json:"info" bson:"info"`
}

// GraphDoc holds the node/edge structure and the designated root.
type GraphDoc struct {
	RootNodeID depgraph.NodeID `json:"rootNodeId" bson:"rootNodeId"`
	Nodes      []NodeEntry     `json:"nodes" bson:"nodes"`
}

// NodeEntry is one node occurrence. Deps lists successor node ids only;
// parent relationships are derived on deserialization, never stored.
// Info is omitted when the occurrence carries none.
type NodeEntry struct {
	NodeID depgraph.NodeID    `json:"nodeId" bson:"nodeId"`
	PkgID  depgraph.PackageID `json:"pkgId" bson:"pkgId"`
	Deps   []DepRef           `json:"deps" bson:"deps"`
	Info   depgraph.NodeInfo  `json:"info,omitempty" bson:"info,omitempty"`
}

// DepRef references a successor node.
type DepRef struct {
	NodeID depgraph.NodeID `json:"nodeId" bson:"nodeId"`
}

// FromGraph converts a graph to its canonical document. The output is
// deterministic for a given instance: package and node enumeration follow the
// graph's internal storage order.
func FromGraph(g *depgraph.Graph) Document {
	pkgs := g.AllPackages()
	doc := Document{
		SchemaVersion: SchemaVersion,
		PkgManager:    g.PkgManager(),
		Pkgs:          make([]PackageEntry, len(pkgs)),
		Graph: GraphDoc{
			RootNodeID: g.RootNodeID(),
			Nodes:      make([]NodeEntry, 0, g.NodeCount()),
		},
	}

	for i, info := range pkgs {
		doc.Pkgs[i] = PackageEntry{ID: info.Pkg.ID(), Info: info}
	}

	for _, n := range g.Nodes() {
		deps, _ := g.DependenciesOf(n.ID)
		entry := NodeEntry{
			NodeID: n.ID,
			PkgID:  n.PackageID,
			Deps:   make([]DepRef, len(deps)),
		}
		for i, dep := range deps {
			entry.Deps[i] = DepRef{NodeID: dep}
		}
		if len(n.Info) > 0 {
			entry.Info = n.Info
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, entry)
	}
	return doc
}

// ToGraph reconstructs a graph from a canonical document.
//
// Returns an INCOMPATIBLE_SCHEMA error when the document's major schema
// version is not [SupportedMajor], or a MALFORMED_DOCUMENT error for
// structural problems: a missing or unknown root, a node referencing an
// unlisted package, a dep referencing a missing node, or a package entry
// whose key disagrees with its package identity.
func (d Document) ToGraph() (*depgraph.Graph, error) {
	if err := checkSchema(d.SchemaVersion); err != nil {
		return nil, err
	}

	b := depgraph.NewBuilder(d.PkgManager)
	byID := make(map[depgraph.PackageID]depgraph.Package, len(d.Pkgs))
	for _, entry := range d.Pkgs {
		if entry.ID != entry.Info.Pkg.ID() {
			return nil, errors.New(errors.ErrCodeMalformedDocument,
				"package entry %s does not match its identity %s", entry.ID, entry.Info.Pkg.ID())
		}
		if err := b.RegisterPackage(entry.Info.Pkg, entry.Info.Meta); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "package entry %s", entry.ID)
		}
		byID[entry.ID] = entry.Info.Pkg
	}

	for _, n := range d.Graph.Nodes {
		pkg, ok := byID[n.PkgID]
		if !ok {
			return nil, errors.New(errors.ErrCodeMalformedDocument,
				"node %s references unlisted package %s", n.NodeID, n.PkgID)
		}
		if err := b.AddNodeWithID(n.NodeID, pkg, n.Info); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "node %s", n.NodeID)
		}
	}

	for _, n := range d.Graph.Nodes {
		for _, dep := range n.Deps {
			if err := b.AddEdge(n.NodeID, dep.NodeID); err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err,
					"edge %s->%s", n.NodeID, dep.NodeID)
			}
		}
	}

	if d.Graph.RootNodeID == "" {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "document has no root node id")
	}
	if err := b.SetRoot(d.Graph.RootNodeID); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "root node %s", d.Graph.RootNodeID)
	}

	g, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "finalize graph")
	}
	return g, nil
}

// checkSchema validates the schemaVersion field against SupportedMajor.
func checkSchema(version string) error {
	if version == "" {
		return errors.New(errors.ErrCodeMalformedDocument, "document has no schema version")
	}
	majorPart, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(majorPart)
	if err != nil {
		return errors.New(errors.ErrCodeIncompatibleSchema, "unparsable schema version %q", version)
	}
	if major != SupportedMajor {
		return errors.New(errors.ErrCodeIncompatibleSchema,
			"schema version %s is not supported (want major %d)", version, SupportedMajor)
	}
	return nil
}

// Marshal converts a graph to indented canonical JSON bytes.
func Marshal(g *depgraph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a graph as canonical JSON to w.
func Write(g *depgraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Unmarshal decodes canonical JSON bytes into a graph.
func Unmarshal(data []byte) (*depgraph.Graph, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a canonical JSON document from r into a graph.
// Decoding failures yield a MALFORMED_DOCUMENT error; schema and structural
// failures are reported as by [Document.ToGraph].
func Read(r io.Reader) (*depgraph.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "decode document")
	}
	return doc.ToGraph()
}
