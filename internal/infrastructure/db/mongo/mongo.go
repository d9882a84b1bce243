// Package mongo keeps accounts and the shared recipe feed in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names inside Config.Database.
const (
	CollectionAccounts = "accounts"
	CollectionRecipes  = "shared_recipes"
)

const (
	appName = "savefarm"

	// opTimeout bounds every repository call.
	opTimeout = 10 * time.Second

	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 2 * time.Second
)

// Config holds the MONGO_* settings.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	// PingTimeout bounds the readiness check. It stays below the readiness
	// handler's own deadline so a hung primary reports as down.
	PingTimeout time.Duration
}

// Store owns the client and hands out the repositories.
type Store struct {
	client      *mongo.Client
	db          *mongo.Database
	pingTimeout time.Duration

	Accounts *AccountRepository
	Recipes  *RecipeRepository
}

// Open connects, waits for a primary and creates the feed index.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:      client,
		db:          db,
		pingTimeout: pingTimeout,
		Accounts:    NewAccountRepository(db),
		Recipes:     NewRecipeRepository(db),
	}
	if err := s.Recipes.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure %s indexes: %w", CollectionRecipes, err)
	}
	return s, nil
}

// Ping reports whether the primary answers within the ping timeout.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
