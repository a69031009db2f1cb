package repository

import (
	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *entity.Profile) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Profile, error)
	FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Profile, error)
}
