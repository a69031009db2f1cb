package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilityRule is a recurring weekly window in which a doctor accepts bookings.
type AvailabilityRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_availability_doctor_day" json:"doctor_id"`
	DayOfWeek int       `gorm:"not null;index:idx_availability_doctor_day" json:"day_of_week"` // 0 = Sunday
	StartTime TimeOfDay `gorm:"type:time;not null" json:"start_time"`
	EndTime   TimeOfDay `gorm:"type:time;not null" json:"end_time"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AvailabilityRule) TableName() string {
	return "doctor_availability"
}

func (r *AvailabilityRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Weekday returns the rule day as a time.Weekday.
func (r *AvailabilityRule) Weekday() time.Weekday {
	return time.Weekday(r.DayOfWeek)
}

// Overlaps reports whether the two rules share a day and intersecting [start, end) windows.
func (r *AvailabilityRule) Overlaps(o *AvailabilityRule) bool {
	if r.DayOfWeek != o.DayOfWeek {
		return false
	}
	return r.StartTime < o.EndTime && o.StartTime < r.EndTime
}
