package ports

import (
	"context"

	"github.com/donelist/task-system/internal/core/domain"
)

// TaskStore is the storage engine contract shared by every backend. Callers
// must observe no behavioral difference between implementations beyond
// persistence across restarts and list ordering (durable stores order by
// creation time, the volatile store by insertion).
//
// Failure semantics are asymmetric on purpose: reads and deletes degrade to
// an empty/false result when the backend is unreachable, while creates and
// updates return domain.ErrStorageUnavailable — a caller can always render
// "no tasks", but a created task must never be fabricated.
type TaskStore interface {
	GetAllTasks(ctx context.Context) ([]domain.Task, error)
	// GetTaskByID returns domain.ErrTaskNotFound for an absent id. Not-found
	// is a normal result, not a fault.
	GetTaskByID(ctx context.Context, id int64) (*domain.Task, error)
	// CreateTask assigns a fresh id that never collides with a live task,
	// defaults Completed to false, stamps CreatedAt, and returns the stored
	// task.
	CreateTask(ctx context.Context, task domain.InsertTask) (*domain.Task, error)
	// UpdateTask applies the supplied fields only; id and CreatedAt are
	// immutable. Returns domain.ErrTaskNotFound when no task matched.
	UpdateTask(ctx context.Context, id int64, update domain.UpdateTask) (*domain.Task, error)
	// DeleteTask is idempotent: it reports whether a task existed and was
	// removed. Deleting a nonexistent id is (false, nil), never an error.
	DeleteTask(ctx context.Context, id int64) (bool, error)
	// ClearCompletedTasks removes every completed task and reports whether at
	// least one was removed. A backend fault is returned as
	// (false, domain.ErrStorageUnavailable) so it stays distinguishable from
	// "nothing to delete".
	ClearCompletedTasks(ctx context.Context) (bool, error)

	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, user domain.InsertUser) (*domain.User, error)
}
