package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-layout-backend/internal/models"
)

// mongoLayout is the stored shape of a layout. The document payload is kept as
// an embedded BSON document so it can be inspected with ordinary queries.
type mongoLayout struct {
	ScopeID   string    `bson:"_id"`
	Payload   bson.Raw  `bson:"payload"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoLayoutRepository struct {
	collection *mongo.Collection
}

// NewMongoLayoutRepository stores layouts in collection, one document per scope.
func NewMongoLayoutRepository(collection *mongo.Collection) LayoutRepository {
	return &mongoLayoutRepository{collection: collection}
}

// ConnectMongo opens a client and verifies the connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func (r *mongoLayoutRepository) Get(ctx context.Context, scopeID string) (*models.LayoutRecord, error) {
	var stored mongoLayout
	err := r.collection.FindOne(ctx, bson.M{"_id": scopeID}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrLayoutNotFound
	}
	if err != nil {
		return nil, err
	}

	payload, err := payloadFromBSON(stored.Payload)
	if err != nil {
		return nil, err
	}

	return &models.LayoutRecord{
		ScopeID:   stored.ScopeID,
		Payload:   payload,
		CreatedAt: stored.CreatedAt,
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

func (r *mongoLayoutRepository) Put(ctx context.Context, record *models.LayoutRecord) error {
	payload, err := payloadToBSON(record.Payload)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"payload":    payload,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": record.ScopeID}, update, options.Update().SetUpsert(true))
	return err
}

// payloadToBSON converts a JSON layout payload into an embedded document,
// keeping key order.
func payloadToBSON(payload []byte) (bson.Raw, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON(payload, false, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert layout payload: %w", err)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout payload: %w", err)
	}
	return bson.Raw(raw), nil
}

func payloadFromBSON(raw bson.Raw) ([]byte, error) {
	payload, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to convert layout payload: %w", err)
	}
	return payload, nil
}
