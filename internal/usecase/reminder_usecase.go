package usecase

import (
	"context"
	"time"

	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"
	"medibook/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReminderUsecase interface {
	// SendDueReminders notifies both parties of every active appointment taking place
	// the day after now. Each appointment is claimed before dispatch, so concurrent
	// workers never remind twice.
	SendDueReminders(ctx context.Context, now time.Time) (*dto.ReminderRunResponse, error)
}

type reminderUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	dispatcher      service.NotificationDispatcher
	auditService    service.AuditService
	clock           *Clock
}

func NewReminderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	dispatcher service.NotificationDispatcher,
	auditService service.AuditService,
	clock *Clock,
) ReminderUsecase {
	return &reminderUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		dispatcher:      dispatcher,
		auditService:    auditService,
		clock:           clock,
	}
}

func (u *reminderUsecase) SendDueReminders(ctx context.Context, now time.Time) (*dto.ReminderRunResponse, error) {
	tomorrow := entity.DateOf(now.In(u.clock.Location)).AddDays(1)
	db := u.db.WithContext(ctx)

	due, err := u.appointmentRepo.FindDueReminders(db, tomorrow)
	if err != nil {
		u.log.Warnf("Failed to find due reminders for %s: %+v", tomorrow, err)
		return nil, err
	}

	result := &dto.ReminderRunResponse{Date: tomorrow.String(), Due: len(due)}
	for i := range due {
		appointment := &due[i]

		claimed, err := u.appointmentRepo.MarkReminderSent(db, appointment.ID, now)
		if err != nil {
			u.log.Warnf("Failed to claim reminder for appointment %s: %+v", appointment.ID, err)
			result.Failed++
			continue
		}
		if claimed == 0 {
			result.Skipped++
			continue
		}

		if err := u.dispatcher.NotifyAppointmentEvent(ctx, appointment, service.AppointmentEventReminder); err != nil {
			// The claim is kept, so this reminder is not retried.
			u.log.Errorf("Failed to deliver reminder for appointment %s: %+v", appointment.ID, err)
			result.Failed++
			continue
		}
		result.Sent++
		_ = u.auditService.LogCreate(ctx, nil, nil, entity.AuditActionReminderSend, "appointment", appointment.ID.String(), map[string]interface{}{
			"date": tomorrow.String(),
		})
	}

	if result.Due > 0 {
		u.log.Infof("Reminders for %s: due=%d sent=%d skipped=%d failed=%d", tomorrow, result.Due, result.Sent, result.Skipped, result.Failed)
	}
	return result, nil
}
