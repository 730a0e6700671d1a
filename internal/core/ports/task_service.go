package ports

import (
	"context"

	"github.com/donelist/task-system/internal/core/domain"
)

// CreateTaskInput carries all data needed to create a task.
type CreateTaskInput struct {
	Text      string
	Completed *bool
	// IdempotencyKey, when non-empty and a guard is configured, makes the
	// create replay-safe: a repeated key returns the originally created task.
	IdempotencyKey string
}

// UpdateTaskInput is a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Text      *string
	Completed *bool
}

// TaskService defines the use-case operations exposed to the transport layer.
// Validation happens here, before any store call.
type TaskService interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, input UpdateTaskInput) (*domain.Task, error)
	// DeleteTask reports whether the task existed.
	DeleteTask(ctx context.Context, id int64) (bool, error)
	// ClearCompletedTasks reports whether anything was removed.
	ClearCompletedTasks(ctx context.Context) (bool, error)
}
