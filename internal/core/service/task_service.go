package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/donelist/task-system/internal/api/metrics"
	"github.com/donelist/task-system/internal/core/domain"
	"github.com/donelist/task-system/internal/core/ports"
)

// IdempotencyGuard abstracts the replay store (Redis). A nil guard disables
// idempotent creates.
type IdempotencyGuard interface {
	// Seen returns the task id previously recorded for key, if any.
	Seen(ctx context.Context, key string) (int64, bool, error)
	// Record remembers that key produced the task with the given id.
	Record(ctx context.Context, key string, id int64) error
}

type taskService struct {
	store ports.TaskStore
	idem  IdempotencyGuard
	log   zerolog.Logger
}

// NewTaskService returns a ports.TaskService backed by the given store.
// guard may be nil.
func NewTaskService(store ports.TaskStore, guard IdempotencyGuard, log zerolog.Logger) ports.TaskService {
	return &taskService{store: store, idem: guard, log: log}
}

func (s *taskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.store.GetAllTasks(ctx)
}

func (s *taskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return s.store.GetTaskByID(ctx, id)
}

// CreateTask validates the input and inserts a new task. When an idempotency
// key was supplied and already seen, the originally created task is returned
// without side effects. Guard failures are non-fatal: the create proceeds.
func (s *taskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	insert := domain.InsertTask{Text: input.Text}
	if input.Completed != nil {
		insert.Completed = *input.Completed
	}
	if err := insert.Validate(); err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if id, seen, err := s.idem.Seen(ctx, input.IdempotencyKey); err != nil {
			s.log.Warn().Err(err).Msg("idempotency check failed, creating anyway")
		} else if seen {
			existing, err := s.store.GetTaskByID(ctx, id)
			if err == nil {
				s.log.Info().Str("idempotency_key", input.IdempotencyKey).Int64("task_id", id).Msg("idempotent replay")
				metrics.IdempotentReplaysTotal.Inc()
				return existing, nil
			}
			// Recorded task no longer exists; fall through and create anew.
		}
	}

	task, err := s.store.CreateTask(ctx, insert)
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			metrics.StorageFaultsTotal.WithLabelValues("create_task").Inc()
		}
		s.log.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Record(ctx, input.IdempotencyKey, task.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to record idempotency key")
		}
	}

	metrics.TasksCreatedTotal.Inc()
	s.log.Info().Int64("task_id", task.ID).Msg("task created")
	return task, nil
}

func (s *taskService) UpdateTask(ctx context.Context, id int64, input ports.UpdateTaskInput) (*domain.Task, error) {
	update := domain.UpdateTask{Text: input.Text, Completed: input.Completed}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	task, err := s.store.UpdateTask(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			metrics.StorageFaultsTotal.WithLabelValues("update_task").Inc()
			s.log.Error().Err(err).Int64("task_id", id).Msg("failed to update task")
		}
		return nil, err
	}

	metrics.TasksUpdatedTotal.Inc()
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		metrics.TasksDeletedTotal.Inc()
		s.log.Info().Int64("task_id", id).Msg("task deleted")
	}
	return deleted, nil
}

func (s *taskService) ClearCompletedTasks(ctx context.Context) (bool, error) {
	cleared, err := s.store.ClearCompletedTasks(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			metrics.StorageFaultsTotal.WithLabelValues("clear_completed").Inc()
		}
		s.log.Error().Err(err).Msg("failed to clear completed tasks")
		return false, err
	}
	if cleared {
		metrics.TasksClearedTotal.Inc()
		s.log.Info().Msg("completed tasks cleared")
	}
	return cleared, nil
}
