// Package database holds thin connection wrappers around the storage
// clients. Connection lifecycle lives here; query construction lives in
// the stores.
package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"talentops-bot/internal/common/config"
)

type MongoClient struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to MongoDB and selects the configured database.
func NewMongo(ctx context.Context, cfg config.MongoConfig) (*MongoClient, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeoutDuration()).
		SetServerSelectionTimeout(cfg.ConnectTimeoutDuration())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	return &MongoClient{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

func (c *MongoClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *MongoClient) Close(ctx context.Context) error {
	if c.client != nil {
		return c.client.Disconnect(ctx)
	}
	return nil
}

// Collection returns a handle for the named collection.
func (c *MongoClient) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

func (c *MongoClient) Database() *mongo.Database {
	return c.db
}
