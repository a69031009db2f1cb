package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type UpdateDoctorProfileRequest struct {
	Bio               *string          `json:"bio" validate:"omitempty,max=2000"`
	ConsultationFee   *decimal.Decimal `json:"consultation_fee" validate:"omitempty"`
	YearsOfExperience *int             `json:"years_of_experience" validate:"omitempty,min=0,max=80"`
	IsActive          *bool            `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID                uuid.UUID       `json:"id"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Specialization    string          `json:"specialization"`
	LicenseNumber     string          `json:"license_number"`
	YearsOfExperience int             `json:"years_of_experience"`
	Bio               string          `json:"bio,omitempty"`
	ConsultationFee   decimal.Decimal `json:"consultation_fee"`
	AvailableDays     []string        `json:"available_days"`
	IsActive          bool            `json:"is_active"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
