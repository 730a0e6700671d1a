package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/donelist/task-system/internal/core/domain"
	"github.com/donelist/task-system/internal/core/ports"
	"github.com/rs/zerolog"
)

const (
	collectionTasks    = "tasks"
	collectionUsers    = "users"
	collectionCounters = "counters"
)

// Store implements ports.TaskStore on a MongoDB database. Ids are assigned by
// atomically incrementing a per-collection sequence in the counters
// collection, so they are monotonic and never reused, matching the relational
// backend.
type Store struct {
	tasks    *mongo.Collection
	users    *mongo.Collection
	counters *mongo.Collection
	log      zerolog.Logger
}

var _ ports.TaskStore = (*Store)(nil)

func NewStore(db *mongo.Database, log zerolog.Logger) *Store {
	return &Store{
		tasks:    db.Collection(collectionTasks),
		users:    db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
		log:      log,
	}
}

// EnsureIndexes creates the indexes the task queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}},
	})
	return err
}

// nextID atomically increments and returns the named sequence, seeding it at 1
// on first use.
func (s *Store) nextID(ctx context.Context, sequence string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": sequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (s *Store) GetAllTasks(ctx context.Context) ([]domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := s.tasks.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		s.log.Warn().Err(err).Msg("get all tasks failed, returning empty list")
		return []domain.Task{}, nil
	}
	defer cursor.Close(ctx)

	tasks := make([]domain.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		s.log.Warn().Err(err).Msg("decode tasks failed, returning empty list")
		return []domain.Task{}, nil
	}
	return tasks, nil
}

func (s *Store) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	err := s.tasks.FindOne(ctx, bson.M{"id": id}).Decode(&t)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.log.Warn().Err(err).Int64("task_id", id).Msg("get task failed, degrading to not found")
		}
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, insert domain.InsertTask) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := s.nextID(ctx, collectionTasks)
	if err != nil {
		s.log.Error().Err(err).Msg("task id allocation failed")
		return nil, domain.ErrStorageUnavailable
	}

	task := domain.Task{
		ID:        id,
		Text:      insert.Text,
		Completed: insert.Completed,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.tasks.InsertOne(ctx, task); err != nil {
		s.log.Error().Err(err).Msg("create task failed")
		return nil, domain.ErrStorageUnavailable
	}
	return &task, nil
}

func (s *Store) UpdateTask(ctx context.Context, id int64, update domain.UpdateTask) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if update.Text != nil {
		set["text"] = *update.Text
	}
	if update.Completed != nil {
		set["completed"] = *update.Completed
	}
	if len(set) == 0 {
		return s.GetTaskByID(ctx, id)
	}

	var t domain.Task
	err := s.tasks.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		s.log.Error().Err(err).Int64("task_id", id).Msg("update task failed")
		return nil, domain.ErrStorageUnavailable
	}
	return &t, nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.tasks.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		s.log.Warn().Err(err).Int64("task_id", id).Msg("delete task failed, degrading to false")
		return false, nil
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) ClearCompletedTasks(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.tasks.DeleteMany(ctx, bson.M{"completed": true})
	if err != nil {
		s.log.Error().Err(err).Msg("clear completed tasks failed")
		return false, domain.ErrStorageUnavailable
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := s.users.FindOne(ctx, bson.M{"id": id}).Decode(&u)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.log.Warn().Err(err).Int64("user_id", id).Msg("get user failed, degrading to not found")
		}
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.log.Warn().Err(err).Str("username", username).Msg("get user failed, degrading to not found")
		}
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, insert domain.InsertUser) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := s.nextID(ctx, collectionUsers)
	if err != nil {
		s.log.Error().Err(err).Msg("user id allocation failed")
		return nil, domain.ErrStorageUnavailable
	}

	user := domain.User{ID: id, Username: insert.Username, Password: insert.Password}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		s.log.Error().Err(err).Msg("create user failed")
		return nil, domain.ErrStorageUnavailable
	}
	return &user, nil
}
