// Package cache provides pluggable byte caching for analysis results.
//
// The server caches query results (path enumerations, counts) keyed by the
// hash of the canonical graph document plus the query, so repeated analysis
// of the same stored graph is served without re-traversal. Backends:
//
//   - [FileCache]: directory-backed, for CLI usage
//   - [RedisCache]: shared cache for multi-instance server deployments
//   - [NullCache]: disables caching
//
// Because a graph instance is immutable, cached results never need
// invalidation: a changed graph has a different document hash.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl stores the entry without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for the depscope key spaces.
type Keyer interface {
	// DocumentKey keys a stored canonical document by its content hash.
	DocumentKey(docHash string) string
	// AnalysisKey keys a query result on a document: the query name plus its
	// parameters (e.g. "paths", "lodash@4.17.21").
	AnalysisKey(docHash, query, params string) string
}

// DefaultKeyer derives keys by hashing the components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for a canonical document.
func (k *DefaultKeyer) DocumentKey(docHash string) string {
	return hashKey("doc", docHash)
}

// AnalysisKey generates a key for a query result.
func (k *DefaultKeyer) AnalysisKey(docHash, query, params string) string {
	return hashKey("analysis", docHash, query, params)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. to
// separate API versions or tenants sharing one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey generates a prefixed key for a canonical document.
func (k *ScopedKeyer) DocumentKey(docHash string) string {
	return k.prefix + k.inner.DocumentKey(docHash)
}

// AnalysisKey generates a prefixed key for a query result.
func (k *ScopedKeyer) AnalysisKey(docHash, query, params string) string {
	return k.prefix + k.inner.AnalysisKey(docHash, query, params)
}
