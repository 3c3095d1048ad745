// Package mongo stores finished debates durably in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ai-debate/internal/config"
	"github.com/Rrens/ai-debate/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Archive implements domain.DebateArchive on a MongoDB collection
type Archive struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect opens a client and verifies it with a ping
func Connect(ctx context.Context, cfg config.MongoConfig) (*Archive, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		clientOpts.SetConnectTimeout(cfg.Timeout)
		clientOpts.SetTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Archive{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save upserts a finished debate keyed by session ID
func (a *Archive) Save(ctx context.Context, record *domain.DebateRecord) error {
	_, err := a.collection.ReplaceOne(ctx,
		bson.M{"_id": record.SessionID},
		record,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save debate record: %w", err)
	}
	return nil
}

// Get retrieves a finished debate
func (a *Archive) Get(ctx context.Context, sessionID string) (*domain.DebateRecord, error) {
	var record domain.DebateRecord
	err := a.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get debate record: %w", err)
	}
	return &record, nil
}

// Recent returns the latest finished debates, newest first
func (a *Archive) Recent(ctx context.Context, limit int) ([]*domain.DebateRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "finished_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := a.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list debate records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []*domain.DebateRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode debate records: %w", err)
	}
	return records, nil
}

// Ping verifies MongoDB connectivity
func (a *Archive) Ping(ctx context.Context) error {
	return a.client.Ping(ctx, nil)
}

// Close disconnects the client
func (a *Archive) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}
