package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Project     *Project   `gorm:"foreignKey:ProjectID"`
	Title       string     `gorm:"not null"`
	Description string     `gorm:"type:text"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid;index"`
	Status      TaskStatus `gorm:"type:varchar(20);default:'pending';index"`
	DueDate     *time.Time
	CreatedBy   uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskBlocked:
		return true
	default:
		return false
	}
}
