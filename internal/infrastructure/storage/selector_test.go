package storage

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/donelist/task-system/internal/core/domain"
	"github.com/donelist/task-system/internal/infrastructure/config"
)

func TestSelect_DefaultsToMemory(t *testing.T) {
	backend := Select(context.Background(), &config.Config{}, zerolog.Nop())

	if backend.Name != "memory" {
		t.Fatalf("expected memory backend, got %q", backend.Name)
	}
	if err := backend.Ping(context.Background()); err != nil {
		t.Errorf("memory ping must always succeed: %v", err)
	}

	// The returned store is live.
	task, err := backend.Store.CreateTask(context.Background(), domain.InsertTask{Text: "buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 1 {
		t.Errorf("expected id 1, got %d", task.ID)
	}

	backend.Close(context.Background())
}

func TestSelect_InvalidMongoURIFallsBack(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mongo.URI = "not-a-mongodb-uri"
	cfg.Mongo.Database = "taskdb"

	backend := Select(context.Background(), cfg, zerolog.Nop())

	if backend.Name != "memory" {
		t.Fatalf("an unreachable backend must fall back to memory, got %q", backend.Name)
	}
}
