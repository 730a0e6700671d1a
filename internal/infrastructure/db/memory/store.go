// Package memory provides the volatile, in-process storage backend. All state
// is lost on restart; it is selected only when no durable backend is
// configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/donelist/task-system/internal/core/domain"
	"github.com/donelist/task-system/internal/core/ports"
)

// Store keeps tasks and users in maps guarded by a mutex. Id counters are
// instance-local, seeded at 1, and never reuse a value within the process
// lifetime. GetAllTasks returns tasks in insertion order.
type Store struct {
	mu         sync.Mutex
	tasks      map[int64]domain.Task
	order      []int64
	users      map[int64]domain.User
	nextTaskID int64
	nextUserID int64
}

var _ ports.TaskStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		tasks:      make(map[int64]domain.Task),
		users:      make(map[int64]domain.User),
		nextTaskID: 1,
		nextUserID: 1,
	}
}

func (s *Store) GetAllTasks(_ context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out, nil
}

func (s *Store) GetTaskByID(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (s *Store) CreateTask(_ context.Context, insert domain.InsertTask) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := domain.Task{
		ID:        s.nextTaskID,
		Text:      insert.Text,
		Completed: insert.Completed,
		CreatedAt: time.Now().UTC(),
	}
	s.nextTaskID++
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return &task, nil
}

func (s *Store) UpdateTask(_ context.Context, id int64, update domain.UpdateTask) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if update.Text != nil {
		task.Text = *update.Text
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	s.tasks[id] = task
	return &task, nil
}

func (s *Store) DeleteTask(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	s.dropFromOrder(id)
	return true, nil
}

func (s *Store) ClearCompletedTasks(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	kept := s.order[:0]
	for _, id := range s.order {
		if s.tasks[id].Completed {
			delete(s.tasks, id)
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) CreateUser(_ context.Context, insert domain.InsertUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := domain.User{
		ID:       s.nextUserID,
		Username: insert.Username,
		Password: insert.Password,
	}
	s.nextUserID++
	s.users[user.ID] = user
	return &user, nil
}

func (s *Store) dropFromOrder(id int64) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
