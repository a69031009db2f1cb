package converter

import (
	"time"

	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
)

// AvailabilityRuleToResponse converts an AvailabilityRule entity to its DTO
func AvailabilityRuleToResponse(rule *entity.AvailabilityRule) *dto.AvailabilityRuleResponse {
	if rule == nil {
		return nil
	}

	return &dto.AvailabilityRuleResponse{
		ID:        rule.ID,
		DoctorID:  rule.DoctorID,
		DayOfWeek: rule.DayOfWeek,
		DayName:   time.Weekday(rule.DayOfWeek).String(),
		StartTime: rule.StartTime.String(),
		EndTime:   rule.EndTime.String(),
		IsActive:  rule.IsActive,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}
}

func AvailabilityRulesToResponses(rules []entity.AvailabilityRule) []dto.AvailabilityRuleResponse {
	responses := make([]dto.AvailabilityRuleResponse, len(rules))
	for i := range rules {
		responses[i] = *AvailabilityRuleToResponse(&rules[i])
	}
	return responses
}

// TimesToStrings renders slots as HH:MM
func TimesToStrings(slots []entity.TimeOfDay) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}
