package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType classifies an inbox entry
type NotificationType string

const (
	NotificationAppointmentReminder  NotificationType = "appointment_reminder"
	NotificationAppointmentConfirmed NotificationType = "appointment_confirmed"
	NotificationAppointmentCancelled NotificationType = "appointment_cancelled"
	NotificationSystem               NotificationType = "system"
	NotificationAIAlert              NotificationType = "ai_alert"
)

// Notification is an inbox entry owned by its recipient.
// AppointmentID is a lookup reference only.
type Notification struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_user_created" json:"user_id"`
	Title         string           `gorm:"type:varchar(255);not null" json:"title"`
	Message       string           `gorm:"type:text;not null" json:"message"`
	Type          NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	IsRead        bool             `gorm:"not null;default:false" json:"is_read"`
	AppointmentID *uuid.UUID       `gorm:"type:uuid" json:"appointment_id,omitempty"`
	CreatedAt     time.Time        `gorm:"autoCreateTime;index:idx_notifications_user_created" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
