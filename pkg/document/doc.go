// Package document implements the canonical, schema-versioned JSON form of a
// dependency graph and its inverse deserializer.
//
// # Format
//
// A document carries the schema version, an opaque package-manager
// descriptor, the package registry, and the node structure with forward
// (successor) edges only:
//
//	{
//	  "schemaVersion": "1.0.0",
//	  "pkgManager": "npm",
//	  "pkgs": [{"id": "a@1.0.0", "info": {"pkg": {"name": "a", "version": "1.0.0"}}}],
//	  "graph": {
//	    "rootNodeId": "n0",
//	    "nodes": [{"nodeId": "n0", "pkgId": "a@1.0.0", "deps": []}]
//	  }
//	}
//
// Per-node info is omitted when empty. Parent relationships are derived on
// load, never stored.
//
// # Round trip
//
// Deserializing a document produced by [FromGraph] yields a graph that is
// Equals-true to the original, independent of node-id renumbering performed
// by producers.
//
// # Legacy format
//
// The pre-versioned flat node/edge format is still readable through
// [ReadLegacy]; [IsLegacy] sniffs it. Writing always produces the current
// format.
package document
