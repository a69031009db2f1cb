package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAvailabilityRuleRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"` // 0 = Sunday
	StartTime string `json:"start_time" validate:"required"`              // HH:MM
	EndTime   string `json:"end_time" validate:"required"`                // HH:MM
}

type UpdateAvailabilityRuleRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// Response DTOs

type AvailabilityRuleResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	DayOfWeek int       `json:"day_of_week"`
	DayName   string    `json:"day_name"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AvailabilityRuleListResponse struct {
	Rules []AvailabilityRuleResponse `json:"rules"`
	Total int                        `json:"total"`
}

type SlotsResponse struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Candidate []string  `json:"candidate"`
	Bookable  []string  `json:"bookable"`
}
