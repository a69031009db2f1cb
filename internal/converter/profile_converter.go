package converter

import (
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
)

// ProfileToSummary converts a Profile entity to ProfileSummary DTO
func ProfileToSummary(profile *entity.Profile) *dto.ProfileSummary {
	if profile == nil {
		return nil
	}

	return &dto.ProfileSummary{
		ID:       profile.ID,
		FullName: profile.FullName,
		Email:    profile.Email,
		Phone:    profile.Phone,
		Role:     string(profile.Role),
	}
}
