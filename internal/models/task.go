package models

import (
	"time"
)

const (
	CategoryStudy      = "study"
	CategoryExercise   = "exercise"
	CategoryWork       = "work"
	CategoryPersonal   = "personal"
	CategoryHealth     = "health"
	CategoryCreativity = "creativity"
)

const (
	DefaultTaskColor = "#3B82F6"
	DefaultTimeSlots = 1
)

var Categories = []string{
	CategoryStudy,
	CategoryExercise,
	CategoryWork,
	CategoryPersonal,
	CategoryHealth,
	CategoryCreativity,
}

type Task struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	Emoji       string    `json:"emoji" gorm:"not null"`
	TimeSlots   int       `json:"timeSlots" gorm:"not null;default:1"`
	Category    string    `json:"category" gorm:"not null"`
	Color       string    `json:"color" gorm:"not null;default:'#3B82F6'"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
}

// KnownCategory reports whether c is one of the styled categories. Other
// values are stored as-is.
func KnownCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

type TaskInput struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Emoji       string  `json:"emoji" binding:"required"`
	TimeSlots   *int    `json:"timeSlots" binding:"omitempty,min=1"`
	Category    string  `json:"category" binding:"required"`
	Color       *string `json:"color"`
}

// TaskUpdate carries a partial task; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	Emoji       *string `json:"emoji" binding:"omitempty,min=1"`
	TimeSlots   *int    `json:"timeSlots" binding:"omitempty,min=1"`
	Category    *string `json:"category" binding:"omitempty,min=1"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

// Apply merges the non-nil fields of u into t.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = u.Description
	}
	if u.Emoji != nil {
		t.Emoji = *u.Emoji
	}
	if u.TimeSlots != nil {
		t.TimeSlots = *u.TimeSlots
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Color != nil {
		t.Color = *u.Color
	}
	if u.IsActive != nil {
		t.IsActive = *u.IsActive
	}
}

func stringPtr(s string) *string {
	return &s
}

// DefaultTasks returns the tasks a fresh store starts with.
func DefaultTasks(now time.Time) []Task {
	return []Task{
		{
			ID:          "1",
			Title:       "GATE Exam Preparation",
			Description: stringPtr("Study computer science topics for GATE exam"),
			Emoji:       "📚",
			TimeSlots:   3,
			Category:    CategoryStudy,
			Color:       "#3B82F6",
			IsActive:    true,
			CreatedAt:   now,
		},
		{
			ID:          "2",
			Title:       "Yoga & Meditation",
			Description: stringPtr("30 minutes of yoga and mindfulness practice"),
			Emoji:       "🧘‍♀️",
			TimeSlots:   1,
			Category:    CategoryHealth,
			Color:       "#10B981",
			IsActive:    true,
			CreatedAt:   now,
		},
		{
			ID:          "3",
			Title:       "Coding Practice",
			Description: stringPtr("Solve programming problems and work on projects"),
			Emoji:       "💻",
			TimeSlots:   2,
			Category:    CategoryWork,
			Color:       "#8B5CF6",
			IsActive:    true,
			CreatedAt:   now,
		},
		{
			ID:          "4",
			Title:       "Reading Tech Articles",
			Description: stringPtr("Stay updated with latest technology trends"),
			Emoji:       "📖",
			TimeSlots:   1,
			Category:    CategoryStudy,
			Color:       "#F59E0B",
			IsActive:    true,
			CreatedAt:   now,
		},
	}
}
