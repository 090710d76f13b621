package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority is the task priority enum.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is one of the known priority values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a single task owned by a user. UserID is set at creation
// and never reassigned.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:1000"`
	DueDate     time.Time `json:"due_date" gorm:"not null;index:idx_tasks_owner_query,priority:3"`
	Priority    Priority  `json:"priority" gorm:"type:varchar(10);default:'medium';index:idx_tasks_owner_query,priority:4"`
	Completed   bool      `json:"completed" gorm:"default:false;index:idx_tasks_owner_query,priority:2"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index:idx_tasks_owner_query,priority:1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID and default priority before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return nil
}
