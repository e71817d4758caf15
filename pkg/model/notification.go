package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationProjectPicked   NotificationType = "project_picked"
	NotificationProjectReleased NotificationType = "project_released"
	NotificationStaffed         NotificationType = "staffed"
	NotificationGeneral         NotificationType = "general"
)

type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type      NotificationType `gorm:"type:varchar(40);default:'general'"`
	Title     string           `gorm:"not null"`
	Message   string           `gorm:"type:text"`
	ProjectID *uuid.UUID       `gorm:"type:uuid"`
	Read      bool             `gorm:"default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
