package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/models"
	"habit-tracker/backend/internal/repositories"
	"habit-tracker/backend/internal/validation"
)

type ProgressService interface {
	ProgressForDate(ctx context.Context, date string) ([]models.DailyProgress, error)
	UpsertProgress(ctx context.Context, in models.ProgressInput) (models.DailyProgress, error)
	PatchProgress(ctx context.Context, id string, update models.ProgressUpdate) (models.DailyProgress, error)
}

type ProgressServiceImpl struct {
	repo repositories.ProgressRepository
	log  logger.Logger
	now  func() time.Time
}

func NewProgressService(repo repositories.ProgressRepository, log logger.Logger) *ProgressServiceImpl {
	return &ProgressServiceImpl{repo: repo, log: log, now: time.Now}
}

func (s *ProgressServiceImpl) ProgressForDate(ctx context.Context, date string) ([]models.DailyProgress, error) {
	if !validation.IsDate(date) {
		return nil, NewValidationError("date", "must be YYYY-MM-DD")
	}

	records, err := s.repo.RecordsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("progress for %s: %w", date, err)
	}
	return records, nil
}

// UpsertProgress writes the record for (in.TaskID, in.Date). Completing a
// record without a completedAt stamps the current time.
func (s *ProgressServiceImpl) UpsertProgress(ctx context.Context, in models.ProgressInput) (models.DailyProgress, error) {
	if in.TaskID == "" {
		return models.DailyProgress{}, NewValidationError("taskId", "is required")
	}
	if !validation.IsDate(in.Date) {
		return models.DailyProgress{}, NewValidationError("date", "must be YYYY-MM-DD")
	}
	if in.Streak != nil && *in.Streak < 0 {
		return models.DailyProgress{}, NewValidationError("streak", "must not be negative")
	}

	in.StampCompletedAt(s.now().UTC())

	record, err := s.repo.UpsertProgress(ctx, in)
	if errors.Is(err, repositories.ErrTaskRequired) {
		return models.DailyProgress{}, ErrTaskNotFound
	}
	if err != nil {
		return models.DailyProgress{}, fmt.Errorf("upsert progress %s/%s: %w", in.TaskID, in.Date, err)
	}

	s.log.Debugf("progress saved: task=%s date=%s completed=%t", record.TaskID, record.Date, record.Completed)
	return record, nil
}

func (s *ProgressServiceImpl) PatchProgress(ctx context.Context, id string, update models.ProgressUpdate) (models.DailyProgress, error) {
	update.StampCompletedAt(s.now().UTC())

	record, err := s.repo.PatchProgress(ctx, id, update)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.DailyProgress{}, ErrProgressNotFound
	}
	if err != nil {
		return models.DailyProgress{}, fmt.Errorf("patch progress %s: %w", id, err)
	}
	return record, nil
}
