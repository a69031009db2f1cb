package repository

import (
	"errors"
	"strings"

	"medibook/internal/domain/entity"
	domainRepo "medibook/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit(clause.Associations).Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("Profile").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

// Search returns active doctors ordered by name. Filters match case-insensitively on
// substrings; LOWER/LIKE keeps the query portable between postgres and sqlite.
func (r *doctorRepository) Search(db *gorm.DB, filter *entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := db.
		Joins("JOIN profiles ON profiles.id = doctors.id").
		Where("doctors.is_active = ?", true)

	if filter != nil {
		if filter.Name != "" {
			query = query.Where("LOWER(profiles.full_name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
		}
		if filter.Specialization != "" {
			query = query.Where("LOWER(doctors.specialization) LIKE ?", "%"+strings.ToLower(filter.Specialization)+"%")
		}
	}

	err := query.
		Preload("Profile").
		Order("profiles.full_name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit(clause.Associations).Save(doctor).Error
}

func (r *doctorRepository) UpdateAvailableDays(db *gorm.DB, id uuid.UUID, days string) error {
	return db.Model(&entity.Doctor{}).Where("id = ?", id).Update("available_days", days).Error
}
