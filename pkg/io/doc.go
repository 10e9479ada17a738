// Package io provides file-level import and export of dependency graphs.
//
// It wraps the document package with os-level plumbing: [ExportJSON] and
// [ImportJSON] operate on paths, [WriteJSON] and [ReadJSON] on streams.
// Import transparently accepts both the current schema-versioned format and
// the legacy flat format.
package io
