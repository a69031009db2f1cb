package handler

import (
	"context"
	"net/http"

	"medibook/internal/delivery/dto"
	"medibook/internal/delivery/http/middleware"
	"medibook/internal/domain/entity"
	"medibook/internal/usecase"
	"medibook/pkg/response"
	"medibook/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req dto.CreateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.appointmentUsecase.BookAppointment(r.Context(), patientID, &req)
	if err != nil {
		writeError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", result)
}

func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	appointments, err := h.appointmentUsecase.ListPatientAppointments(r.Context(), patientID)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), callerID, appointmentID)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.ConfirmAppointment, "Appointment confirmed successfully", "Failed to confirm appointment")
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.CompleteAppointment, "Appointment completed successfully", "Failed to complete appointment")
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.CancelAppointment, "Appointment cancelled successfully", "Failed to cancel appointment")
}

type transitionFunc func(ctx context.Context, caller entity.Caller, appointmentID uuid.UUID) (*dto.AppointmentResult, error)

func (h *AppointmentHandler) transition(w http.ResponseWriter, r *http.Request, apply transitionFunc, okMessage, failMessage string) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	result, err := apply(r.Context(), caller, appointmentID)
	if err != nil {
		writeError(w, err, failMessage)
		return
	}

	response.Success(w, http.StatusOK, okMessage, result)
}

// Schedule handles GET /doctor/schedule?from=&to=
func (h *AppointmentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	query := r.URL.Query()
	schedule, err := h.appointmentUsecase.ListDoctorSchedule(r.Context(), doctorID, query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *AppointmentHandler) CreatePersonalEvent(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req dto.CreatePersonalEventRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	event, err := h.appointmentUsecase.CreatePersonalEvent(r.Context(), doctorID, &req)
	if err != nil {
		writeError(w, err, "Failed to create event")
		return
	}

	response.Success(w, http.StatusCreated, "Event created successfully", event)
}
