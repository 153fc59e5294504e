package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB wraps the shared MongoDB connection and exposes named collections.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Config holds document store configuration
type Config struct {
	URI         string
	Database    string
	InsecureTLS bool
}

// Connect opens the document store connection and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	if cfg.InsecureTLS {
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logrus.Info("✅ Document store connection established")

	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

// Collection returns a handle to a named collection.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Ping checks if the connection is alive
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Close disconnects from the document store
func (d *DB) Close(ctx context.Context) error {
	if d.client != nil {
		logrus.Info("📡 Closing document store connection...")
		return d.client.Disconnect(ctx)
	}
	return nil
}
