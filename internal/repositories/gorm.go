package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habit-tracker/backend/internal/models"

	"gorm.io/gorm"
)

// GormStore persists to the users, tasks and daily_progress tables. The
// schema must already be migrated.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *GormStore) Seed(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Task{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		if count > 0 {
			return nil
		}

		tasks := models.DefaultTasks(s.now())
		// Stagger creation times backwards so created_at ordering matches
		// seed order.
		for i := range tasks {
			tasks[i].CreatedAt = tasks[i].CreatedAt.Add(-time.Duration(len(tasks)-i) * time.Millisecond)
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return fmt.Errorf("failed to seed tasks: %w", err)
		}
		return nil
	})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStore) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error
	return task, translate(err)
}

func (s *GormStore) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	id, err := newID()
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to generate task ID: %w", err)
	}

	task.ID = id
	task.IsActive = true
	task.CreatedAt = s.now()
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return models.Task{}, translate(err)
	}
	return task, nil
}

func (s *GormStore) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			return err
		}
		update.Apply(&task)
		return tx.Save(&task).Error
	})
	if err != nil {
		return models.Task{}, translate(err)
	}
	return task, nil
}

func (s *GormStore) SoftDeleteTask(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) RecordsForDate(ctx context.Context, date string) ([]models.DailyProgress, error) {
	records := make([]models.DailyProgress, 0)
	err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// UpsertProgress runs in a transaction. A concurrent insert of the same
// (task, date) trips the unique index; the retry then finds that row and
// merges into it.
func (s *GormStore) UpsertProgress(ctx context.Context, in models.ProgressInput) (models.DailyProgress, error) {
	record, err := s.upsertProgress(ctx, in)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		record, err = s.upsertProgress(ctx, in)
	}
	if err != nil {
		if errors.Is(err, ErrTaskRequired) {
			return models.DailyProgress{}, ErrTaskRequired
		}
		return models.DailyProgress{}, translate(err)
	}
	return record, nil
}

func (s *GormStore) upsertProgress(ctx context.Context, in models.ProgressInput) (models.DailyProgress, error) {
	id, err := newID()
	if err != nil {
		return models.DailyProgress{}, fmt.Errorf("failed to generate progress ID: %w", err)
	}

	var record models.DailyProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Task{}).Where("id = ?", in.TaskID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrTaskRequired
		}

		err := tx.Where("task_id = ? AND date = ?", in.TaskID, in.Date).First(&record).Error
		switch {
		case err == nil:
			in.Apply(&record)
			return tx.Save(&record).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = models.DailyProgress{ID: id, TaskID: in.TaskID, Date: in.Date, CreatedAt: s.now()}
			in.Apply(&record)
			return tx.Create(&record).Error
		default:
			return err
		}
	})
	return record, err
}

func (s *GormStore) PatchProgress(ctx context.Context, id string, update models.ProgressUpdate) (models.DailyProgress, error) {
	var record models.DailyProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			return err
		}
		update.Apply(&record)
		return tx.Save(&record).Error
	})
	if err != nil {
		return models.DailyProgress{}, translate(err)
	}
	return record, nil
}

func (s *GormStore) AllRecords(ctx context.Context) ([]models.DailyProgress, error) {
	var records []models.DailyProgress
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormStore) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return user, translate(err)
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	return user, translate(err)
}

func (s *GormStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	id, err := newID()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to generate user ID: %w", err)
	}

	user.ID = id
	user.CreatedAt = s.now()
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}
