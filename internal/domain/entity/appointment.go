package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// ActiveAppointmentStatuses are the statuses that occupy a slot.
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
}

const DefaultAppointmentDuration = 30

// Appointment is a booking of a doctor slot. The partial unique index keeps at most one
// scheduled or confirmed appointment per doctor, date and time.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_appointments_active_slot,where:status = 'scheduled' OR status = 'confirmed';index:idx_appointments_doctor_date" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentDate Date              `gorm:"type:date;not null;uniqueIndex:idx_appointments_active_slot;index:idx_appointments_doctor_date" json:"appointment_date"`
	AppointmentTime TimeOfDay         `gorm:"type:time;not null;uniqueIndex:idx_appointments_active_slot" json:"appointment_time"`
	DurationMinutes int               `gorm:"not null;default:30" json:"duration_minutes"`
	ReasonForVisit  string            `gorm:"type:text;not null" json:"reason_for_visit"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ReminderSentAt  *time.Time        `json:"reminder_sent_at,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient *Profile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsPersonalEvent reports whether the appointment only blocks the doctor's own time.
func (a *Appointment) IsPersonalEvent() bool {
	return a.PatientID == a.DoctorID
}

// IsActive reports whether the appointment occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusScheduled || a.Status == AppointmentStatusConfirmed
}

// IsTerminal reports whether no further transitions are possible.
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusCancelled
}

// Duration falls back to the default slot length for legacy rows.
func (a *Appointment) Duration() time.Duration {
	if a.DurationMinutes <= 0 {
		return DefaultAppointmentDuration * time.Minute
	}
	return time.Duration(a.DurationMinutes) * time.Minute
}

// HasParty reports whether userID is the doctor or the patient of the appointment.
func (a *Appointment) HasParty(userID uuid.UUID) bool {
	return a.DoctorID == userID || a.PatientID == userID
}
