package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor holds doctor-specific data. ID equals the owning Profile ID.
type Doctor struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Specialization    string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	LicenseNumber     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	YearsOfExperience int             `gorm:"not null;default:0" json:"years_of_experience"`
	Bio               string          `gorm:"type:text" json:"bio,omitempty"`
	ConsultationFee   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
	// AvailableDays caches the weekday names of active rules, comma separated.
	AvailableDays string    `gorm:"type:varchar(100)" json:"available_days"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Profile *Profile           `gorm:"foreignKey:ID;references:ID" json:"profile,omitempty"`
	Rules   []AvailabilityRule `gorm:"foreignKey:DoctorID" json:"rules,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// AvailableDayList splits the AvailableDays cache.
func (d *Doctor) AvailableDayList() []string {
	if d.AvailableDays == "" {
		return []string{}
	}
	return strings.Split(d.AvailableDays, ",")
}

// DoctorFilter is a domain-level filter for searching doctors.
type DoctorFilter struct {
	Name           string // case-insensitive match on profile full name
	Specialization string // case-insensitive match on specialization
}
