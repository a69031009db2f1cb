package converter

import (
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:                doctor.ID,
		Specialization:    doctor.Specialization,
		LicenseNumber:     doctor.LicenseNumber,
		YearsOfExperience: doctor.YearsOfExperience,
		Bio:               doctor.Bio,
		ConsultationFee:   doctor.ConsultationFee,
		AvailableDays:     doctor.AvailableDayList(),
		IsActive:          doctor.IsActive,
	}
	if doctor.Profile != nil {
		response.FullName = doctor.Profile.FullName
		response.Email = doctor.Profile.Email
		response.Phone = doctor.Profile.Phone
	}
	return response
}

// DoctorsToResponses converts a slice of Doctor entities to DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
