package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one recorded lifecycle write. Entity identifies the row that changed;
// Metadata holds the before and after values.
type AuditLog struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string     `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityType string     `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity" json:"entity_type"`
	EntityID   string     `gorm:"type:varchar(64);not null;index:idx_audit_logs_entity" json:"entity_id"`
	Metadata   JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionAppointmentBook     = "appointment.book"
	AuditActionAppointmentConfirm  = "appointment.confirm"
	AuditActionAppointmentComplete = "appointment.complete"
	AuditActionAppointmentCancel   = "appointment.cancel"
	AuditActionPersonalEventCreate = "personal_event.create"
	AuditActionAvailabilityCreate  = "availability.create"
	AuditActionAvailabilityUpdate  = "availability.update"
	AuditActionAvailabilityDelete  = "availability.delete"
	AuditActionDoctorUpdate        = "doctor.update"
	AuditActionReminderSend        = "reminder.send"
)
