// Package repositories holds the task, progress and user stores. Two
// backends implement Store: MemoryStore for a single process and GormStore
// for sqlite or postgres.
package repositories

import (
	"context"
	"errors"

	"habit-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrTaskRequired = errors.New("referenced task does not exist")
)

type TaskRepository interface {
	// ListActiveTasks returns active tasks in insertion order.
	ListActiveTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	// CreateTask stores task under a fresh id, ignoring any id it carries.
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (models.Task, error)
	// SoftDeleteTask marks the task inactive and reports whether it existed.
	SoftDeleteTask(ctx context.Context, id string) (bool, error)
}

type ProgressRepository interface {
	RecordsForDate(ctx context.Context, date string) ([]models.DailyProgress, error)
	// UpsertProgress merges in into the record for (in.TaskID, in.Date),
	// creating it when absent. The pair is unique.
	UpsertProgress(ctx context.Context, in models.ProgressInput) (models.DailyProgress, error)
	PatchProgress(ctx context.Context, id string, update models.ProgressUpdate) (models.DailyProgress, error)
	AllRecords(ctx context.Context) ([]models.DailyProgress, error)
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
}

type Store interface {
	TaskRepository
	ProgressRepository
	UserRepository

	// Seed inserts the default tasks when the store holds none.
	Seed(ctx context.Context) error
	Close() error
}

func newID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
