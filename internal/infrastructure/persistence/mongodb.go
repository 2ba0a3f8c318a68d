package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds the connection settings for the notification store
type MongoConfig struct {
	URI         string
	Username    string
	Password    string
	AppName     string
	MaxPoolSize uint64
	// Timeout bounds connecting, server selection and the startup ping
	Timeout time.Duration
}

func (c MongoConfig) clientOptions() *options.ClientOptions {
	opts := options.Client().
		ApplyURI(c.URI).
		SetRetryWrites(true)

	if c.AppName != "" {
		opts.SetAppName(c.AppName)
	}
	if c.Username != "" && c.Password != "" {
		opts.SetAuth(options.Credential{
			Username: c.Username,
			Password: c.Password,
		})
	}
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.MaxPoolSize)
	}
	if c.Timeout > 0 {
		opts.SetConnectTimeout(c.Timeout)
		opts.SetServerSelectionTimeout(c.Timeout)
	}
	return opts
}

// NewMongoClient connects to MongoDB and verifies the primary is reachable
func NewMongoClient(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, cfg.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

// GetDatabase gets a database from the client
func GetDatabase(client *mongo.Client, name string) *mongo.Database {
	return client.Database(name)
}
