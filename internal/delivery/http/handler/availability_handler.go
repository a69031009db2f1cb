package handler

import (
	"net/http"

	"medibook/internal/delivery/dto"
	"medibook/internal/delivery/http/middleware"
	"medibook/internal/usecase"
	"medibook/pkg/response"
	"medibook/pkg/validator"
)

// AvailabilityHandler manages the calling doctor's weekly rules.
type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

func (h *AvailabilityHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	rules, err := h.availabilityUsecase.ListRules(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", rules)
}

func (h *AvailabilityHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req dto.CreateAvailabilityRuleRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	rule, err := h.availabilityUsecase.CreateRule(r.Context(), doctorID, &req)
	if err != nil {
		writeError(w, err, "Failed to create availability")
		return
	}

	response.Success(w, http.StatusCreated, "Availability created successfully", rule)
}

func (h *AvailabilityHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	ruleID, ok := pathUUID(w, r, "id", "availability")
	if !ok {
		return
	}

	var req dto.UpdateAvailabilityRuleRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	rule, err := h.availabilityUsecase.SetRuleActive(r.Context(), doctorID, ruleID, &req)
	if err != nil {
		writeError(w, err, "Failed to update availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", rule)
}

func (h *AvailabilityHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	ruleID, ok := pathUUID(w, r, "id", "availability")
	if !ok {
		return
	}

	if err := h.availabilityUsecase.DeleteRule(r.Context(), doctorID, ruleID); err != nil {
		writeError(w, err, "Failed to delete availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability deleted successfully", nil)
}
