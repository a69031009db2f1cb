package repository

import (
	"errors"

	"medibook/internal/domain/entity"
	domainRepo "medibook/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityRuleRepository struct{}

func NewAvailabilityRuleRepository() domainRepo.AvailabilityRuleRepository {
	return &availabilityRuleRepository{}
}

func (r *availabilityRuleRepository) Create(db *gorm.DB, rule *entity.AvailabilityRule) error {
	return db.Create(rule).Error
}

func (r *availabilityRuleRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.AvailabilityRule, error) {
	var rule entity.AvailabilityRule
	err := db.Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *availabilityRuleRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.AvailabilityRule, error) {
	var rules []entity.AvailabilityRule
	err := db.Where("doctor_id = ?", doctorID).Order("day_of_week ASC, start_time ASC").Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *availabilityRuleRepository) FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) ([]entity.AvailabilityRule, error) {
	var rules []entity.AvailabilityRule
	err := db.Where("doctor_id = ? AND day_of_week = ? AND is_active = ?", doctorID, dayOfWeek, true).
		Order("start_time ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *availabilityRuleRepository) Update(db *gorm.DB, rule *entity.AvailabilityRule) error {
	return db.Save(rule).Error
}

func (r *availabilityRuleRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.AvailabilityRule{})
	return affected.RowsAffected, affected.Error
}
