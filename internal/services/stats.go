package services

import (
	"context"
	"fmt"

	"habit-tracker/backend/internal/models"
	"habit-tracker/backend/internal/repositories"
	"habit-tracker/backend/internal/stats"
)

type StatsService interface {
	GetStats(ctx context.Context) (models.Stats, error)
}

type StatsServiceImpl struct {
	repo       repositories.ProgressRepository
	calculator *stats.Calculator
}

func NewStatsService(repo repositories.ProgressRepository, calculator *stats.Calculator) *StatsServiceImpl {
	return &StatsServiceImpl{repo: repo, calculator: calculator}
}

func (s *StatsServiceImpl) GetStats(ctx context.Context) (models.Stats, error) {
	records, err := s.repo.AllRecords(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("load progress history: %w", err)
	}
	return s.calculator.Calculate(records), nil
}

func (s *StatsServiceImpl) Mode() stats.Mode {
	return s.calculator.Mode()
}
