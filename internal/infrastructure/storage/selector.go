// Package storage decides, once at process start, which storage backend is
// active. The decision is never revisited at runtime: the selected backend is
// constructed here, handed to the caller, and treated as immutable for the
// process lifetime.
package storage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/donelist/task-system/internal/core/ports"
	"github.com/donelist/task-system/internal/infrastructure/config"
	"github.com/donelist/task-system/internal/infrastructure/db/memory"
	mongodb "github.com/donelist/task-system/internal/infrastructure/db/mongo"
	"github.com/donelist/task-system/internal/infrastructure/db/postgres"
)

// Backend bundles the active store with its readiness probe and teardown.
type Backend struct {
	Store ports.TaskStore
	// Name identifies the selected implementation: postgres, mongo, or memory.
	Name  string
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context)
}

// Select picks the storage backend from configuration: a reachable
// DATABASE_URL wins, then a reachable MONGO_URI, then the in-memory store.
// A durable backend that is configured but unreachable logs a warning and
// falls through — startup never aborts over storage.
func Select(ctx context.Context, cfg *config.Config, log zerolog.Logger) *Backend {
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err == nil {
			log.Info().Msg("postgres backend selected")
			return &Backend{
				Store: postgres.NewStore(pool, log),
				Name:  "postgres",
				Ping:  pool.Ping,
				Close: func(context.Context) { pool.Close() },
			}
		}
		log.Warn().Err(err).Msg("postgres unreachable, falling back")
	}

	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err == nil {
			store := mongodb.NewStore(db, log)
			if err := store.EnsureIndexes(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to ensure mongo indexes")
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("mongo backend selected")
			return &Backend{
				Store: store,
				Name:  "mongo",
				Ping:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
				Close: func(ctx context.Context) { _ = client.Disconnect(ctx) },
			}
		}
		log.Warn().Err(err).Msg("mongo unreachable, falling back")
	}

	log.Info().Msg("no durable backend configured, using in-memory store")
	return &Backend{
		Store: memory.NewStore(),
		Name:  "memory",
		Ping:  func(context.Context) error { return nil },
		Close: func(context.Context) {},
	}
}
