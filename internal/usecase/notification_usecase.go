package usecase

import (
	"context"
	"errors"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/repository"
	"medibook/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// notificationListLimit caps the inbox page returned to clients.
const notificationListLimit = 100

type NotificationUsecase interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkAllReadResponse, error)
	Delete(ctx context.Context, userID, notificationID uuid.UUID) error
	// Subscribe opens a live feed of the user's new notifications.
	Subscribe(ctx context.Context, userID uuid.UUID) (*service.Subscription, error)
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	hub              service.NotificationHub
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	hub service.NotificationHub,
) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

func (u *notificationUsecase) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) (*dto.NotificationListResponse, error) {
	db := u.db.WithContext(ctx)

	notifications, err := u.notificationRepo.FindByUserID(db, userID, unreadOnly, notificationListLimit)
	if err != nil {
		u.log.Warnf("Failed to list notifications for %s: %+v", userID, err)
		return nil, err
	}
	unread, err := u.notificationRepo.CountUnread(db, userID)
	if err != nil {
		u.log.Warnf("Failed to count unread notifications for %s: %+v", userID, err)
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Total:         len(notifications),
		Unread:        unread,
	}, nil
}

func (u *notificationUsecase) UnreadCount(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, error) {
	count, err := u.notificationRepo.CountUnread(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to count unread notifications for %s: %+v", userID, err)
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

func (u *notificationUsecase) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	affected, err := u.notificationRepo.MarkRead(u.db.WithContext(ctx), userID, notificationID)
	if err != nil {
		u.log.Warnf("Failed to mark notification %s read: %+v", notificationID, err)
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkAllReadResponse, error) {
	affected, err := u.notificationRepo.MarkAllRead(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to mark notifications read for %s: %+v", userID, err)
		return nil, err
	}
	return &dto.MarkAllReadResponse{Updated: affected}, nil
}

func (u *notificationUsecase) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	affected, err := u.notificationRepo.Delete(u.db.WithContext(ctx), userID, notificationID)
	if err != nil {
		u.log.Warnf("Failed to delete notification %s: %+v", notificationID, err)
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) Subscribe(ctx context.Context, userID uuid.UUID) (*service.Subscription, error) {
	sub, err := u.hub.Subscribe(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to subscribe %s to notifications: %+v", userID, err)
		return nil, err
	}
	return sub, nil
}
