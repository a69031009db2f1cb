package repository

import (
	"errors"
	"time"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateSlot is returned by Create when another active appointment already holds
// the same doctor, date and time.
var ErrDuplicateSlot = errors.New("appointment slot already taken")

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorAndDateRange(db *gorm.DB, doctorID uuid.UUID, from, to entity.Date) ([]entity.Appointment, error)
	FindActiveByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date entity.Date) ([]entity.Appointment, error)
	// TransitionStatus moves the row from `from` to `to` only if its status is still `from`.
	// It returns the number of affected rows.
	TransitionStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	FindDueReminders(db *gorm.DB, date entity.Date) ([]entity.Appointment, error)
	// MarkReminderSent claims the reminder for the appointment; 0 rows means another worker did.
	MarkReminderSent(db *gorm.DB, id uuid.UUID, at time.Time) (int64, error)
}
