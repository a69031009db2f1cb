package converter

import (
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		Date:            appointment.AppointmentDate.String(),
		Time:            appointment.AppointmentTime.String(),
		DurationMinutes: int(appointment.Duration().Minutes()),
		ReasonForVisit:  appointment.ReasonForVisit,
		Notes:           appointment.Notes,
		Status:          string(appointment.Status),
		IsPersonalEvent: appointment.IsPersonalEvent(),
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	// Include related parties if preloaded
	if appointment.Doctor != nil {
		response.Doctor = DoctorToResponse(appointment.Doctor)
	}
	if appointment.Patient != nil && !appointment.IsPersonalEvent() {
		response.Patient = ProfileToSummary(appointment.Patient)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
