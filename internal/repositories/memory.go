package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"habit-tracker/backend/internal/models"
)

type progressKey struct {
	taskID string
	date   string
}

// MemoryStore keeps everything in process. Slices preserve insertion order;
// the index maps point into them.
type MemoryStore struct {
	mu sync.RWMutex

	tasks     []models.Task
	taskIndex map[string]int

	progress      []models.DailyProgress
	progressIndex map[string]int
	progressByKey map[progressKey]int

	users     []models.User
	userIndex map[string]int

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		taskIndex:     make(map[string]int),
		progressIndex: make(map[string]int),
		progressByKey: make(map[progressKey]int),
		userIndex:     make(map[string]int),
		now:           time.Now,
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneTask and cloneProgress detach returned values from the stored ones.
func cloneTask(t models.Task) models.Task {
	t.Description = clonePtr(t.Description)
	return t
}

func cloneProgress(p models.DailyProgress) models.DailyProgress {
	p.UserID = clonePtr(p.UserID)
	p.CompletedAt = clonePtr(p.CompletedAt)
	p.Notes = clonePtr(p.Notes)
	return p
}

func (s *MemoryStore) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) > 0 {
		return nil
	}
	for _, task := range models.DefaultTasks(s.now()) {
		s.taskIndex[task.ID] = len(s.tasks)
		s.tasks = append(s.tasks, task)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.IsActive {
			tasks = append(tasks, cloneTask(task))
		}
	}
	return tasks, nil
}

func (s *MemoryStore) GetTask(ctx context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.taskIndex[id]
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return cloneTask(s.tasks[i]), nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	id, err := newID()
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to generate task ID: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = id
	task.IsActive = true
	task.CreatedAt = s.now()
	task = cloneTask(task)
	s.taskIndex[task.ID] = len(s.tasks)
	s.tasks = append(s.tasks, task)
	return cloneTask(task), nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.taskIndex[id]
	if !ok {
		return models.Task{}, ErrNotFound
	}
	update.Apply(&s.tasks[i])
	s.tasks[i] = cloneTask(s.tasks[i])
	return cloneTask(s.tasks[i]), nil
}

func (s *MemoryStore) SoftDeleteTask(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.taskIndex[id]
	if !ok {
		return false, nil
	}
	s.tasks[i].IsActive = false
	return true, nil
}

func (s *MemoryStore) RecordsForDate(ctx context.Context, date string) ([]models.DailyProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.DailyProgress, 0)
	for _, p := range s.progress {
		if p.Date == date {
			records = append(records, cloneProgress(p))
		}
	}
	return records, nil
}

func (s *MemoryStore) UpsertProgress(ctx context.Context, in models.ProgressInput) (models.DailyProgress, error) {
	id, err := newID()
	if err != nil {
		return models.DailyProgress{}, fmt.Errorf("failed to generate progress ID: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.taskIndex[in.TaskID]; !ok {
		return models.DailyProgress{}, ErrTaskRequired
	}

	key := progressKey{taskID: in.TaskID, date: in.Date}
	if i, ok := s.progressByKey[key]; ok {
		in.Apply(&s.progress[i])
		s.progress[i] = cloneProgress(s.progress[i])
		return cloneProgress(s.progress[i]), nil
	}

	record := models.DailyProgress{
		ID:        id,
		TaskID:    in.TaskID,
		Date:      in.Date,
		CreatedAt: s.now(),
	}
	in.Apply(&record)
	record = cloneProgress(record)

	s.progressIndex[record.ID] = len(s.progress)
	s.progressByKey[key] = len(s.progress)
	s.progress = append(s.progress, record)
	return cloneProgress(record), nil
}

func (s *MemoryStore) PatchProgress(ctx context.Context, id string, update models.ProgressUpdate) (models.DailyProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.progressIndex[id]
	if !ok {
		return models.DailyProgress{}, ErrNotFound
	}
	update.Apply(&s.progress[i])
	s.progress[i] = cloneProgress(s.progress[i])
	return cloneProgress(s.progress[i]), nil
}

func (s *MemoryStore) AllRecords(ctx context.Context) ([]models.DailyProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.DailyProgress, len(s.progress))
	for i, p := range s.progress {
		records[i] = cloneProgress(p)
	}
	return records, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.userIndex[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[i], nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	id, err := newID()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to generate user ID: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return models.User{}, ErrDuplicate
		}
	}

	user.ID = id
	user.CreatedAt = s.now()
	s.userIndex[user.ID] = len(s.users)
	s.users = append(s.users, user)
	return user, nil
}
