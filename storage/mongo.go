package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "conversations"

type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *slog.Logger
}

func NewMongoStorage(uri, database string, log *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	collection := client.Database(database).Collection(collectionName)

	// Index on timestamp keeps recent-first reads cheap; a failure here
	// leaves the store usable, just unindexed.
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		log.Warn("creating index", slog.String("error", err.Error()))
	}

	return &MongoStorage{
		client:     client,
		collection: collection,
		log:        log,
	}, nil
}

func (m *MongoStorage) SaveExchange(userMessage, aiResponse, imageData string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exchange := bson.M{
		"user_message": userMessage,
		"ai_response":  aiResponse,
		"timestamp":    time.Now().UTC(),
		"has_image":    imageData != "",
	}
	if imageData != "" {
		exchange["image_data"] = imageData
	}

	result, err := m.collection.InsertOne(ctx, exchange)
	if err != nil {
		return "", fmt.Errorf("inserting exchange: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprintf("%v", result.InsertedID), nil
	}
	return id.Hex(), nil
}

func (m *MongoStorage) RecentExchanges(limit int, includeImages bool) ([]Exchange, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	if !includeImages {
		opts.SetProjection(bson.M{"image_data": 0})
	}

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("finding exchanges: %w", err)
	}

	exchanges := make([]Exchange, 0, limit)
	if err := cursor.All(ctx, &exchanges); err != nil {
		return nil, fmt.Errorf("decoding exchanges: %w", err)
	}
	return exchanges, nil
}

func (m *MongoStorage) CountExchanges() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting exchanges: %w", err)
	}
	return count, nil
}

func (m *MongoStorage) Name() string {
	return "MongoDB"
}

func (m *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
