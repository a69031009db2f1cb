package converter

import (
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
)

func NotificationToResponse(n *entity.Notification) *dto.NotificationResponse {
	if n == nil {
		return nil
	}

	return &dto.NotificationResponse{
		ID:            n.ID,
		Title:         n.Title,
		Message:       n.Message,
		Type:          string(n.Type),
		IsRead:        n.IsRead,
		AppointmentID: n.AppointmentID,
		CreatedAt:     n.CreatedAt,
	}
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = *NotificationToResponse(&notifications[i])
	}
	return responses
}
