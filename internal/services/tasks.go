package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/models"
	"habit-tracker/backend/internal/repositories"
)

type TaskService interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	CreateTask(ctx context.Context, in models.TaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type TaskServiceImpl struct {
	repo repositories.TaskRepository
	log  logger.Logger
}

func NewTaskService(repo repositories.TaskRepository, log logger.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{repo: repo, log: log}
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.repo.ListActiveTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, id string) (models.Task, error) {
	task, err := s.repo.GetTask(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	return task, nil
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, in models.TaskInput) (models.Task, error) {
	if err := validateTaskInput(in); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Emoji:       in.Emoji,
		TimeSlots:   models.DefaultTimeSlots,
		Category:    in.Category,
		Color:       models.DefaultTaskColor,
	}
	if in.TimeSlots != nil {
		task.TimeSlots = *in.TimeSlots
	}
	if in.Color != nil && *in.Color != "" {
		task.Color = *in.Color
	}
	if !models.KnownCategory(task.Category) {
		s.log.Debugf("creating task with unstyled category %q", task.Category)
	}

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.log.Infof("task created: %s (%s)", created.ID, created.Title)
	return created, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (models.Task, error) {
	if err := validateTaskUpdate(update); err != nil {
		return models.Task{}, err
	}

	task, err := s.repo.UpdateTask(ctx, id, update)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	return task, nil
}

// DeleteTask deactivates the task. Its progress history is kept.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	found, err := s.repo.SoftDeleteTask(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if !found {
		return ErrTaskNotFound
	}

	s.log.Infof("task deactivated: %s", id)
	return nil
}

func validateTaskInput(in models.TaskInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return NewValidationError("title", "is required")
	case in.Emoji == "":
		return NewValidationError("emoji", "is required")
	case in.Category == "":
		return NewValidationError("category", "is required")
	case in.TimeSlots != nil && *in.TimeSlots < 1:
		return NewValidationError("timeSlots", "must be at least 1")
	}
	return nil
}

func validateTaskUpdate(u models.TaskUpdate) error {
	switch {
	case u.Title != nil && strings.TrimSpace(*u.Title) == "":
		return NewValidationError("title", "must not be empty")
	case u.Emoji != nil && *u.Emoji == "":
		return NewValidationError("emoji", "must not be empty")
	case u.Category != nil && *u.Category == "":
		return NewValidationError("category", "must not be empty")
	case u.TimeSlots != nil && *u.TimeSlots < 1:
		return NewValidationError("timeSlots", "must be at least 1")
	}
	return nil
}
