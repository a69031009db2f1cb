package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"medibook/internal/usecase"
	"medibook/pkg/response"
	"medibook/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const slotTakenMessage = "This time slot is no longer available. Please select another time."

// writeError maps usecase errors to the response envelope. Unknown errors become a
// 500 with fallback as the message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrSlotAlreadyTaken):
		response.Conflict(w, slotTakenMessage)
	case errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrOverlappingRule):
		response.Conflict(w, capitalize(err.Error()))
	case errors.Is(err, usecase.ErrDoctorUnavailable):
		response.UnprocessableEntity(w, "The doctor is not available at this time.")
	case errors.Is(err, usecase.ErrValidation):
		response.BadRequest(w, capitalize(err.Error()))
	case errors.Is(err, usecase.ErrNotAppointmentParty):
		response.Forbidden(w, "Appointment does not belong to you")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrRuleNotFound):
		response.NotFound(w, "Availability rule not found")
	case errors.Is(err, usecase.ErrNotificationNotFound):
		response.NotFound(w, "Notification not found")
	case errors.Is(err, usecase.ErrAuditLogNotFound):
		response.NotFound(w, "Audit log not found")
	case errors.Is(err, usecase.ErrProfileNotFound):
		response.NotFound(w, "Profile not found")
	case errors.Is(err, usecase.ErrAssistantUnavailable),
		errors.Is(err, usecase.ErrRevocationUnavailable):
		response.ServiceUnavailable(w, capitalize(err.Error()))
	default:
		response.InternalServerError(w, fallback)
	}
}

// decodeAndValidate reads a JSON body into req and runs the struct validator. It
// writes the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
