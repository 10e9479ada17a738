// Package store persists canonical graph documents for the depscope server.
//
// Documents are content-addressed: the record id is derived from the SHA-256
// hash of the canonical JSON, so storing the same graph twice is idempotent
// and a record's analysis results can be cached forever under its id.
//
// Backends: [MongoStore] for deployments, [MemoryStore] for tests and
// single-process development.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/depscope/depscope/pkg/cache"
	"github.com/depscope/depscope/pkg/document"
	"github.com/depscope/depscope/pkg/errors"
)

// Record is a stored canonical document with its identity metadata.
type Record struct {
	ID        string            `bson:"_id" json:"id"`
	Hash      string            `bson:"hash" json:"hash"`
	PkgCount  int               `bson:"pkgCount" json:"pkgCount"`
	NodeCount int               `bson:"nodeCount" json:"nodeCount"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
	Doc       document.Document `bson:"doc" json:"doc"`
}

// Store persists canonical graph documents.
type Store interface {
	// Put stores a document and returns its record. Storing an identical
	// document again returns the existing record.
	Put(ctx context.Context, doc document.Document) (Record, error)
	// Get retrieves a record by id. Returns a NOT_FOUND error for unknown ids.
	Get(ctx context.Context, id string) (Record, error)
	// Delete removes a record. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// List returns all records, newest first, without their documents.
	List(ctx context.Context) ([]Record, error)
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewRecord derives the content-addressed record for a document.
func NewRecord(doc document.Document) (Record, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInternal, err, "hash document")
	}
	hash := cache.Hash(data)
	return Record{
		ID:        hash[:16],
		Hash:      hash,
		PkgCount:  len(doc.Pkgs),
		NodeCount: len(doc.Graph.Nodes),
		CreatedAt: time.Now().UTC(),
		Doc:       doc,
	}, nil
}
