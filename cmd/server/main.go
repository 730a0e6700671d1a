package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"

	_ "github.com/donelist/task-system/docs"
	"github.com/donelist/task-system/internal/api"
	"github.com/donelist/task-system/internal/core/service"
	"github.com/donelist/task-system/internal/infrastructure/config"
	redisdb "github.com/donelist/task-system/internal/infrastructure/db/redis"
	"github.com/donelist/task-system/internal/infrastructure/storage"
	"github.com/donelist/task-system/pkg/logger"
)

// @title        Task API
// @version      1.0
// @description  REST API for tracking short text tasks.
// @BasePath     /
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	backend := storage.Select(ctx, cfg, log)
	defer backend.Close(ctx)

	var rdb *redis.Client
	var guard service.IdempotencyGuard
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unreachable, idempotency guard disabled")
		} else {
			defer func() { _ = client.Close() }()
			rdb = client
			guard = redisdb.NewIdempotencyGuard(client)
		}
	}

	tasks := service.NewTaskService(backend.Store, guard, log)

	e := api.NewRouter(api.Deps{
		Tasks:       tasks,
		BackendName: backend.Name,
		BackendPing: backend.Ping,
		Redis:       rdb,
		Logger:      log,
	})

	log.Info().Str("port", cfg.Port).Str("backend", backend.Name).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
