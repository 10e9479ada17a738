package depgraph

import (
	"fmt"
	"strings"
)

// NodeID is an opaque identifier for a single node occurrence in the graph.
// Node ids are unique per occurrence: the same package identity appearing at
// several graph positions has a distinct NodeID per position.
type NodeID string

// PackageID is the canonical string key for a package identity, derived as
// "name@version". A package without a version still carries the "@" separator
// with an empty version component, so the mapping from identity to key is
// unambiguous.
type PackageID string

// Package is a package identity: a name paired with an optional version.
// Two packages are the same identity iff both name and version are equal.
type Package struct {
	Name    string `json:"name" bson:"name"`
	Version string `json:"version,omitempty" bson:"version,omitempty"`
}

// ID returns the canonical PackageID for the package.
func (p Package) ID() PackageID {
	return PackageID(p.Name + "@" + p.Version)
}

// String returns a human-readable form of the package identity.
// Versionless packages render as the bare name.
func (p Package) String() string {
	if p.Version == "" {
		return p.Name
	}
	return fmt.Sprintf("%s@%s", p.Name, p.Version)
}

// ParsePackage splits a "name" or "name@version" argument into a package
// identity. The split is at the last "@" so scoped names like "@scope/pkg"
// parse as versionless names rather than an empty name with a path version.
func ParsePackage(raw string) Package {
	if at := strings.LastIndex(raw, "@"); at > 0 {
		return Package{Name: raw[:at], Version: raw[at+1:]}
	}
	return Package{Name: raw}
}

// Metadata stores arbitrary flat key-value pairs attached to packages or
// node occurrences. Metadata maps may be nil; a nil map means "no metadata"
// and is omitted from serialized documents.
type Metadata map[string]any

// PackageInfo is the registry value for a package identity: the package
// itself plus any flat metadata that applies to every occurrence of it
// (license, description, advisory ids, ...).
type PackageInfo struct {
	Pkg  Package  `json:"pkg" bson:"pkg"`
	Meta Metadata `json:"meta,omitempty" bson:"meta,omitempty"`
}

// NodeInfo carries per-occurrence data distinct from per-package data.
// The same package identity can occur at multiple graph positions with
// different contextual annotations (version provenance, labels, scopes).
type NodeInfo = Metadata

// Node is the public view of a single occurrence in the graph.
type Node struct {
	ID        NodeID    `json:"nodeId" bson:"nodeId"`
	PackageID PackageID `json:"pkgId" bson:"pkgId"`
	Info      NodeInfo  `json:"info,omitempty" bson:"info,omitempty"`
}

// Occurrence is a node occurrence joined with its owning package registry
// entry, as returned by [Graph.OccurrencesOf].
type Occurrence struct {
	Node Node
	Pkg  PackageInfo
}

// Path is a single reachability path from an occurrence up to the root,
// expressed as package identities. The first element is the queried package,
// the last is the root package.
type Path []Package
