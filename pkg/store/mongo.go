package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/depscope/depscope/pkg/document"
	"github.com/depscope/depscope/pkg/errors"
)

const collectionName = "graphs"

// MongoStore persists graph documents in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI      string // e.g. "mongodb://localhost:27017"
	Database string // default "depscope"
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "depscope"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(collectionName),
	}, nil
}

// Put upserts the record for the document. Content addressing makes the
// upsert idempotent: an identical document maps to the same id.
func (s *MongoStore) Put(ctx context.Context, doc document.Document) (Record, error) {
	rec, err := NewRecord(doc)
	if err != nil {
		return Record{}, err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInternal, err, "store document %s", rec.ID)
	}
	return rec, nil
}

// Get retrieves a record by id.
func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return Record{}, errors.New(errors.ErrCodeNotFound, "graph %s is not stored", id)
	}
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInternal, err, "load document %s", id)
	}
	return rec, nil
}

// Delete removes a record by id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete document %s", id)
	}
	return nil
}

// List returns all records, newest first, without their documents.
func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetProjection(bson.M{"doc": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list documents")
	}
	defer cur.Close(ctx)

	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode documents")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
