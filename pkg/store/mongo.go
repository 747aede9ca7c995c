package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RemieJanssen/NetworkGenerators/pkg/errors"
)

const (
	mongoDatabase   = "netgen"
	mongoCollection = "runs"
)

// MongoStore is a MongoDB-backed run archive.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and verifies the connection
// with a ping. Runs are stored in the "netgen.runs" collection.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client: client,
		runs:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

// Put stores a run, replacing any run with the same ID.
// Timeouts and network errors are marked retryable; the pipeline retries
// those with backoff before giving up on the archive write.
func (s *MongoStore) Put(ctx context.Context, run *Run) error {
	_, err := s.runs.ReplaceOne(ctx, bson.M{"_id": run.ID}, run, options.Replace().SetUpsert(true))
	if err != nil && (mongo.IsTimeout(err) || mongo.IsNetworkError(err)) {
		return errors.Retryable(err)
	}
	return err
}

// Get retrieves a run by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "run %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns up to limit runs, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Run, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cur, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var runs []Run
	if err := cur.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// Delete removes a run by ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.runs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "run %s not found", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
