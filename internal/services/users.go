package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"habit-tracker/backend/internal/models"
	"habit-tracker/backend/internal/repositories"
)

type UserService interface {
	CreateUser(ctx context.Context, username, password string) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

type UserServiceImpl struct {
	repo repositories.UserRepository
	cost int
}

func NewUserService(repo repositories.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 50 {
		return models.User{}, NewValidationError("username", "must be between 3 and 50 characters")
	}
	if len(password) < 8 {
		return models.User{}, NewValidationError("password", "must be at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, models.User{
		Username: username,
		Password: string(hashedPassword),
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		return models.User{}, NewValidationError("username", "already exists")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *UserServiceImpl) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}
