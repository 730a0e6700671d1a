package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/donelist/task-system/internal/core/domain"
	"github.com/donelist/task-system/internal/core/ports"
)

const taskColumns = "id, text, completed, created_at"

// Store implements ports.TaskStore on a Postgres pool. Every method guards
// independently against the connection failing mid-run: reads and deletes
// degrade to empty/false, creates and updates surface
// domain.ErrStorageUnavailable. Inserts and updates use RETURNING so the
// post-write row comes back on the same round trip.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

var _ ports.TaskStore = (*Store)(nil)

func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

func (s *Store) GetAllTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at ASC`)
	if err != nil {
		s.log.Warn().Err(err).Msg("get all tasks failed, returning empty list")
		return []domain.Task{}, nil
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.CreatedAt); err != nil {
			s.log.Warn().Err(err).Msg("scan task failed, returning empty list")
			return []domain.Task{}, nil
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		s.log.Warn().Err(err).Msg("read tasks failed, returning empty list")
		return []domain.Task{}, nil
	}
	return tasks, nil
}

func (s *Store) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	err := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id).
		Scan(&t.ID, &t.Text, &t.Completed, &t.CreatedAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn().Err(err).Int64("task_id", id).Msg("get task failed, degrading to not found")
		}
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, insert domain.InsertTask) (*domain.Task, error) {
	var t domain.Task
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (text, completed) VALUES ($1, $2) RETURNING `+taskColumns,
		insert.Text, insert.Completed,
	).Scan(&t.ID, &t.Text, &t.Completed, &t.CreatedAt)
	if err != nil {
		s.log.Error().Err(err).Msg("create task failed")
		return nil, domain.ErrStorageUnavailable
	}
	return &t, nil
}

func (s *Store) UpdateTask(ctx context.Context, id int64, update domain.UpdateTask) (*domain.Task, error) {
	set := make([]string, 0, 2)
	args := []any{id}
	idx := 2
	if update.Text != nil {
		set = append(set, fmt.Sprintf("text = $%d", idx))
		args = append(args, *update.Text)
		idx++
	}
	if update.Completed != nil {
		set = append(set, fmt.Sprintf("completed = $%d", idx))
		args = append(args, *update.Completed)
	}
	if len(set) == 0 {
		return s.GetTaskByID(ctx, id)
	}

	var t domain.Task
	query := `UPDATE tasks SET ` + strings.Join(set, ", ") + ` WHERE id = $1 RETURNING ` + taskColumns
	err := s.pool.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Text, &t.Completed, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		s.log.Error().Err(err).Int64("task_id", id).Msg("update task failed")
		return nil, domain.ErrStorageUnavailable
	}
	return &t, nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("task_id", id).Msg("delete task failed, degrading to false")
		return false, nil
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ClearCompletedTasks(ctx context.Context) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE completed`)
	if err != nil {
		s.log.Error().Err(err).Msg("clear completed tasks failed")
		return false, domain.ErrStorageUnavailable
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `SELECT id, username, password FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn().Err(err).Int64("user_id", id).Msg("get user failed, degrading to not found")
		}
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `SELECT id, username, password FROM users WHERE username = $1 LIMIT 1`, username).
		Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn().Err(err).Str("username", username).Msg("get user failed, degrading to not found")
		}
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, insert domain.InsertUser) (*domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id, username, password`,
		insert.Username, insert.Password,
	).Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("create user failed")
		return nil, domain.ErrStorageUnavailable
	}
	return &u, nil
}
