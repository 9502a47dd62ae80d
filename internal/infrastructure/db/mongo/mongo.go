package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	connectTimeout  = 10 * time.Second
	queryTimeout    = 5 * time.Second
	defaultPoolSize = 20
)

type Config struct {
	URI         string
	Database    string
	AppName     string
	MaxPoolSize uint64
}

// Store holds the client and the database the audit trail lives in.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials MongoDB and pings the primary before returning. Writes use w:1.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	pool := cfg.MaxPoolSize
	if pool == 0 {
		pool = defaultPoolSize
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(pool).
		SetServerSelectionTimeout(connectTimeout).
		SetWriteConcern(writeconcern.W1())
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	s := &Store{Client: client, DB: client.Database(cfg.Database)}
	if err := s.Ping(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Ping reports whether the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
