package depgraph

import (
	"maps"

	"github.com/google/uuid"

	"github.com/depscope/depscope/pkg/errors"
)

// Builder incrementally assembles a [Graph]. Nodes are added bound to a
// package identity, edges connect existing node ids, and Build finalizes the
// instance after enforcing the graph invariants. Invariant violations are
// construction-time failures, never query-time ones.
//
// A Builder is single-use: after a successful Build the builder must not be
// reused, since the produced Graph owns the built index structures.
type Builder struct {
	pkgManager string
	rootID     NodeID

	nodes     map[NodeID]*Node
	nodeOrder []NodeID
	outgoing  map[NodeID][]NodeID
	incoming  map[NodeID][]NodeID

	registry    map[PackageID]PackageInfo
	pkgOrder    []PackageID
	occurrences map[PackageID][]NodeID
}

// NewBuilder creates an empty Builder for the given package-manager
// descriptor (an opaque string such as "npm" or "poetry").
func NewBuilder(pkgManager string) *Builder {
	return &Builder{
		pkgManager:  pkgManager,
		nodes:       make(map[NodeID]*Node),
		outgoing:    make(map[NodeID][]NodeID),
		incoming:    make(map[NodeID][]NodeID),
		registry:    make(map[PackageID]PackageInfo),
		occurrences: make(map[PackageID][]NodeID),
	}
}

// RegisterPackage adds a registry entry for a package identity before any
// occurrence of it exists. The deserializer uses this to carry registry
// entries with zero occurrences through a round trip. Returns an
// INVALID_GRAPH error if the identity is already registered.
func (b *Builder) RegisterPackage(pkg Package, meta Metadata) error {
	if err := errors.ValidatePackageName(pkg.Name); err != nil {
		return err
	}
	if err := errors.ValidateVersion(pkg.Version); err != nil {
		return err
	}
	id := pkg.ID()
	if _, exists := b.registry[id]; exists {
		return errors.New(errors.ErrCodeInvalidGraph, "package %s is already registered", pkg)
	}
	b.registry[id] = PackageInfo{Pkg: pkg, Meta: maps.Clone(meta)}
	b.pkgOrder = append(b.pkgOrder, id)
	return nil
}

// AddNode adds a new occurrence of the given package with a generated node
// id and returns the id. The package is registered on first use.
func (b *Builder) AddNode(pkg Package, info NodeInfo) (NodeID, error) {
	id := NodeID(uuid.NewString())
	if err := b.AddNodeWithID(id, pkg, info); err != nil {
		return "", err
	}
	return id, nil
}

// AddNodeWithID adds a new occurrence of the given package under an
// explicit node id. The deserializer uses this form to preserve document
// node ids. Returns an INVALID_INPUT or INVALID_PACKAGE error for malformed
// identifiers and an INVALID_GRAPH error for duplicate ids.
func (b *Builder) AddNodeWithID(id NodeID, pkg Package, info NodeInfo) error {
	if err := errors.ValidateNodeID(string(id)); err != nil {
		return err
	}
	if err := errors.ValidatePackageName(pkg.Name); err != nil {
		return err
	}
	if err := errors.ValidateVersion(pkg.Version); err != nil {
		return err
	}
	if _, exists := b.nodes[id]; exists {
		return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %s", id)
	}

	pkgID := pkg.ID()
	if _, ok := b.registry[pkgID]; !ok {
		b.registry[pkgID] = PackageInfo{Pkg: pkg}
		b.pkgOrder = append(b.pkgOrder, pkgID)
	}

	b.nodes[id] = &Node{ID: id, PackageID: pkgID, Info: maps.Clone(info)}
	b.nodeOrder = append(b.nodeOrder, id)
	b.occurrences[pkgID] = append(b.occurrences[pkgID], id)
	return nil
}

// SetNodeInfo replaces the per-occurrence info of an existing node.
// Returns an UNKNOWN_NODE error if the id has not been added.
func (b *Builder) SetNodeInfo(id NodeID, info NodeInfo) error {
	n, ok := b.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeUnknownNode, "node %s has not been added", id)
	}
	n.Info = maps.Clone(info)
	return nil
}

// SetPackageMeta attaches registry-level metadata to an already-registered
// package identity. Returns an UNKNOWN_PACKAGE error if no occurrence of the
// identity has been added.
func (b *Builder) SetPackageMeta(pkg Package, meta Metadata) error {
	id := pkg.ID()
	info, ok := b.registry[id]
	if !ok {
		return errors.New(errors.ErrCodeUnknownPackage, "package %s has not been added", pkg)
	}
	info.Meta = maps.Clone(meta)
	b.registry[id] = info
	return nil
}

// AddEdge connects a dependency edge between two existing node ids, meaning
// "from directly depends on to". Returns an UNKNOWN_NODE error if either
// endpoint has not been added. Self-edges are rejected with an INVALID_GRAPH
// error; other cycles are representable and only restrict the path queries.
func (b *Builder) AddEdge(from, to NodeID) error {
	if _, ok := b.nodes[from]; !ok {
		return errors.New(errors.ErrCodeUnknownNode, "edge source %s has not been added", from)
	}
	if _, ok := b.nodes[to]; !ok {
		return errors.New(errors.ErrCodeUnknownNode, "edge target %s has not been added", to)
	}
	if from == to {
		return errors.New(errors.ErrCodeInvalidGraph, "self-edge on node %s", from)
	}
	b.outgoing[from] = append(b.outgoing[from], to)
	b.incoming[to] = append(b.incoming[to], from)
	return nil
}

// SetRoot designates the root node. Returns an UNKNOWN_NODE error if the id
// has not been added.
func (b *Builder) SetRoot(id NodeID) error {
	if _, ok := b.nodes[id]; !ok {
		return errors.New(errors.ErrCodeUnknownNode, "root node %s has not been added", id)
	}
	b.rootID = id
	return nil
}

// Build finalizes the builder into an immutable [Graph] after verifying the
// graph invariants: the root is designated and present, every node's package
// is registered, and the occurrence index matches the node set exactly.
// Violations yield an INVALID_GRAPH error.
func (b *Builder) Build() (*Graph, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &Graph{
		pkgManager:  b.pkgManager,
		rootID:      b.rootID,
		nodes:       b.nodes,
		nodeOrder:   b.nodeOrder,
		outgoing:    b.outgoing,
		incoming:    b.incoming,
		registry:    b.registry,
		pkgOrder:    b.pkgOrder,
		occurrences: b.occurrences,
	}, nil
}

func (b *Builder) validate() error {
	if b.rootID == "" {
		return errors.New(errors.ErrCodeInvalidGraph, "no root node designated")
	}
	if _, ok := b.nodes[b.rootID]; !ok {
		return errors.New(errors.ErrCodeInvalidGraph, "root node %s is not in the graph", b.rootID)
	}
	for id, n := range b.nodes {
		if _, ok := b.registry[n.PackageID]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "node %s references unregistered package %s", id, n.PackageID)
		}
	}
	for pkgID, ids := range b.occurrences {
		for _, id := range ids {
			n, ok := b.nodes[id]
			if !ok || n.PackageID != pkgID {
				return errors.New(errors.ErrCodeInvalidGraph, "occurrence index for %s is inconsistent at node %s", pkgID, id)
			}
		}
	}
	for id, deps := range b.outgoing {
		for _, dep := range deps {
			if _, ok := b.nodes[dep]; !ok {
				return errors.New(errors.ErrCodeInvalidGraph, "edge %s->%s references a missing node", id, dep)
			}
		}
	}
	return nil
}
