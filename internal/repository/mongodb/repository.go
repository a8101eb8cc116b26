package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stoktrack/internal/domain/models"
	"github.com/mamadbah2/stoktrack/internal/repository/snapshot"
)

const snapshotDocID = "current"

var _ snapshot.Backend = (*SnapshotBackend)(nil)

// snapshotDoc is the single document holding the serialized store state.
// The payload is the same JSON text the file backend writes, so both
// backends stay format-compatible.
type snapshotDoc struct {
	ID        string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SnapshotBackend implements snapshot.Backend on top of MongoDB.
type SnapshotBackend struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewSnapshotBackend connects to MongoDB and verifies the connection.
func NewSnapshotBackend(ctx context.Context, uri string, dbName string) (*SnapshotBackend, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &SnapshotBackend{
		client:   client,
		dbName:   dbName,
		collName: "snapshots",
	}, nil
}

// ReadSnapshot fetches and decodes the snapshot document.
func (b *SnapshotBackend) ReadSnapshot(ctx context.Context) (models.Snapshot, bool, error) {
	collection := b.client.Database(b.dbName).Collection(b.collName)

	var doc snapshotDoc
	err := collection.FindOne(ctx, bson.M{"_id": snapshotDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Snapshot{}, false, nil
		}
		return models.Snapshot{}, false, fmt.Errorf("fetch snapshot document: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(doc.Payload), &snap); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode snapshot payload: %w", err)
	}
	return snap, true, nil
}

// WriteSnapshot upserts the snapshot document with the serialized state.
func (b *SnapshotBackend) WriteSnapshot(ctx context.Context, snap models.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	collection := b.client.Database(b.dbName).Collection(b.collName)
	doc := snapshotDoc{ID: snapshotDocID, Payload: string(raw), UpdatedAt: time.Now().UTC()}

	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": snapshotDocID}, doc, opts); err != nil {
		return fmt.Errorf("upsert snapshot document: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (b *SnapshotBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}
