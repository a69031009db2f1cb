package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID       uuid.UUID `json:"doctor_id" validate:"required"`
	Date           string    `json:"date" validate:"required"` // YYYY-MM-DD
	Time           string    `json:"time" validate:"required"` // HH:MM
	ReasonForVisit string    `json:"reason_for_visit" validate:"required,max=1000"`
}

type CreatePersonalEventRequest struct {
	Date            string `json:"date" validate:"required"`
	Time            string `json:"time" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=15,max=480"`
	Title           string `json:"title" validate:"required,max=255"`
	Notes           string `json:"notes" validate:"omitempty,max=2000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	DoctorID        uuid.UUID       `json:"doctor_id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	DurationMinutes int             `json:"duration_minutes"`
	ReasonForVisit  string          `json:"reason_for_visit"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	IsPersonalEvent bool            `json:"is_personal_event"`
	Doctor          *DoctorResponse `json:"doctor,omitempty"`
	Patient         *ProfileSummary `json:"patient,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AppointmentResult is returned by writes that dispatch notifications. Warnings carry
// soft notification failures; the write itself succeeded.
type AppointmentResult struct {
	Appointment AppointmentResponse `json:"appointment"`
	Warnings    []string            `json:"warnings,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type ReminderRunResponse struct {
	Date    string `json:"date"`
	Due     int    `json:"due"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}
