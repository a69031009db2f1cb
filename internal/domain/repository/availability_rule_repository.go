package repository

import (
	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityRuleRepository interface {
	Create(db *gorm.DB, rule *entity.AvailabilityRule) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.AvailabilityRule, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.AvailabilityRule, error)
	FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) ([]entity.AvailabilityRule, error)
	Update(db *gorm.DB, rule *entity.AvailabilityRule) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
