package models

import (
	"time"
)

// DateLayout is the calendar date format used for progress records.
const DateLayout = "2006-01-02"

// DailyProgress is the completion state of one task on one date. Streak is
// stored for the client but never read back by the stats calculator.
// CreatedAt only orders records and is not serialized.
type DailyProgress struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      *string    `json:"userId" gorm:"index"`
	TaskID      string     `json:"taskId" gorm:"not null;uniqueIndex:idx_progress_task_date"`
	Date        string     `json:"date" gorm:"not null;uniqueIndex:idx_progress_task_date;index"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CompletedAt *time.Time `json:"completedAt"`
	Streak      int        `json:"streak" gorm:"not null;default:0"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"-" gorm:"index"`

	Task *Task `json:"-" gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

func (DailyProgress) TableName() string {
	return "daily_progress"
}

// ProgressInput is the body of an upsert. TaskID and Date identify the
// record; every other non-nil field is merged into it.
type ProgressInput struct {
	TaskID      string     `json:"taskId" binding:"required"`
	UserID      *string    `json:"userId"`
	Date        string     `json:"date" binding:"omitempty,isodate"`
	Completed   *bool      `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Streak      *int       `json:"streak" binding:"omitempty,min=0"`
	Notes       *string    `json:"notes"`
}

type ProgressUpdate struct {
	Completed   *bool      `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Notes       *string    `json:"notes"`
}

// Apply merges the non-nil fields of in into p. TaskID and Date are keys
// and are not touched. Marking a record incomplete clears CompletedAt.
func (in ProgressInput) Apply(p *DailyProgress) {
	if in.UserID != nil {
		p.UserID = in.UserID
	}
	applyCompletion(p, in.Completed, in.CompletedAt)
	if in.Streak != nil {
		p.Streak = *in.Streak
	}
	if in.Notes != nil {
		p.Notes = in.Notes
	}
}

// StampCompletedAt fills CompletedAt with now when the input completes the
// task without saying when.
func (in *ProgressInput) StampCompletedAt(now time.Time) {
	in.CompletedAt = stampCompletedAt(in.Completed, in.CompletedAt, now)
}

func (u ProgressUpdate) Apply(p *DailyProgress) {
	applyCompletion(p, u.Completed, u.CompletedAt)
	if u.Notes != nil {
		p.Notes = u.Notes
	}
}

func (u *ProgressUpdate) StampCompletedAt(now time.Time) {
	u.CompletedAt = stampCompletedAt(u.Completed, u.CompletedAt, now)
}

func applyCompletion(p *DailyProgress, completed *bool, completedAt *time.Time) {
	if completed != nil {
		p.Completed = *completed
	}
	if !p.Completed {
		p.CompletedAt = nil
		return
	}
	if completedAt != nil {
		p.CompletedAt = completedAt
	}
}

func stampCompletedAt(completed *bool, completedAt *time.Time, now time.Time) *time.Time {
	if completed == nil || !*completed || completedAt != nil {
		return completedAt
	}
	return &now
}
