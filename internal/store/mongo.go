package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookhaus/pkg/logger"
)

const snapshotCollection = "Snapshots"
const snapshotDocID = "current"

// MongoFlusher persists whole-state snapshots to a single MongoDB document.
// The schedule of one business is small, so write-through of the full state
// is cheaper than per-entity diffing and keeps the flush atomic.
type MongoFlusher struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewMongoFlusher(client *mongo.Client, database string, log *logger.Logger) *MongoFlusher {
	return &MongoFlusher{
		collection: client.Database(database).Collection(snapshotCollection),
		log:        log,
	}
}

type snapshotDoc struct {
	ID       string   `bson:"_id"`
	Snapshot Snapshot `bson:"snapshot"`
}

func (f *MongoFlusher) Flush(ctx context.Context, snap Snapshot) error {
	doc := snapshotDoc{ID: snapshotDocID, Snapshot: snap}
	opts := options.Replace().SetUpsert(true)
	_, err := f.collection.ReplaceOne(ctx, bson.M{"_id": snapshotDocID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	f.log.Debug("Snapshot persisted",
		"bookings", len(snap.Bookings),
		"resources", len(snap.Resources),
		"waiting_list", len(snap.WaitingList),
		"ledger", len(snap.Ledger),
	)
	return nil
}

// Load reads the last persisted snapshot. A missing document is not an
// error: the store simply starts empty.
func (f *MongoFlusher) Load(ctx context.Context) (Snapshot, bool, error) {
	var doc snapshotDoc
	err := f.collection.FindOne(ctx, bson.M{"_id": snapshotDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return doc.Snapshot, true, nil
}

// Connect dials MongoDB and verifies the connection, failing fast on a bad
// URI so the service does not come up without its durable backend.
func Connect(log *logger.Logger, uri string, timeout time.Duration) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	return client
}
