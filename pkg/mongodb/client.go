// Package mongodb wraps the MongoDB driver with the project's connection settings.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ghuser/catalog/pkg/config"
)

// Client wraps mongo.Client with the configured database.
type Client struct {
	client   *mongo.Client
	database string
}

// NewClient connects to MongoDB using cfg.MongoURL and verifies connectivity via Ping.
// Server selection is bounded by cfg.StorageTimeout so an unreachable server
// fails fast instead of blocking every request.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURL).
		SetAppName(cfg.ServiceName).
		SetServerSelectionTimeout(cfg.StorageTimeout).
		SetConnectTimeout(cfg.StorageTimeout).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(5 * time.Minute)

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("failed to parse mongo URL: %w", err)
	}

	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := mc.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Client{client: mc, database: cfg.MongoDatabase}, nil
}

// Collection returns a handle to the named collection in the configured database.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.client.Database(c.database).Collection(name)
}

// Ping checks the MongoDB connection health.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB, waiting for in-use connections up to ctx.
func (c *Client) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}
