package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNotificationDeliveryFailed = errors.New("notification delivery failed")

// AppointmentEvent is a lifecycle event that produces notifications.
type AppointmentEvent string

const (
	AppointmentEventBooked    AppointmentEvent = "booked"
	AppointmentEventConfirmed AppointmentEvent = "confirmed"
	AppointmentEventCancelled AppointmentEvent = "cancelled"
	AppointmentEventReminder  AppointmentEvent = "reminder"
)

const displayDateLayout = "January 2, 2006"

// NotificationDispatcher writes one notification for the patient and one for the doctor
// of an appointment, then pushes each to the hub.
type NotificationDispatcher interface {
	NotifyAppointmentEvent(ctx context.Context, appointment *entity.Appointment, event AppointmentEvent) error
}

type notificationDispatcher struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	profileRepo      repository.ProfileRepository
	hub              NotificationHub
}

func NewNotificationDispatcher(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	profileRepo repository.ProfileRepository,
	hub NotificationHub,
) NotificationDispatcher {
	return &notificationDispatcher{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		hub:              hub,
	}
}

// NotifyAppointmentEvent returns an error wrapping ErrNotificationDeliveryFailed when any
// record could not be stored. Hub push failures are only logged.
func (d *notificationDispatcher) NotifyAppointmentEvent(ctx context.Context, appointment *entity.Appointment, event AppointmentEvent) error {
	doctorName, patientName, err := d.partyNames(ctx, appointment)
	if err != nil {
		return fmt.Errorf("%w: load parties: %w", ErrNotificationDeliveryFailed, err)
	}

	msg, err := composeMessages(appointment, event, doctorName, patientName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationDeliveryFailed, err)
	}

	appointmentID := appointment.ID
	records := []*entity.Notification{
		{
			UserID:        appointment.PatientID,
			Title:         msg.patientTitle,
			Message:       msg.patientText,
			Type:          msg.kind,
			AppointmentID: &appointmentID,
		},
		{
			UserID:        appointment.DoctorID,
			Title:         msg.doctorTitle,
			Message:       msg.doctorText,
			Type:          msg.kind,
			AppointmentID: &appointmentID,
		},
	}

	var errs []error
	for _, n := range records {
		if err := d.notificationRepo.Create(d.db.WithContext(ctx), n); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", n.UserID, err))
			continue
		}
		if d.hub != nil {
			if err := d.hub.Publish(ctx, n); err != nil {
				d.log.Warnf("Failed to push notification %s to %s: %+v", n.ID, n.UserID, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNotificationDeliveryFailed, errors.Join(errs...))
	}
	return nil
}

func (d *notificationDispatcher) partyNames(ctx context.Context, appointment *entity.Appointment) (string, string, error) {
	var doctorName, patientName string
	if appointment.Doctor != nil && appointment.Doctor.Profile != nil {
		doctorName = appointment.Doctor.Profile.FullName
	}
	if appointment.Patient != nil {
		patientName = appointment.Patient.FullName
	}
	if doctorName != "" && patientName != "" {
		return doctorName, patientName, nil
	}

	profiles, err := d.profileRepo.FindByIDs(d.db.WithContext(ctx), []uuid.UUID{appointment.DoctorID, appointment.PatientID})
	if err != nil {
		return "", "", err
	}
	for _, p := range profiles {
		if p.ID == appointment.DoctorID {
			doctorName = p.FullName
		}
		if p.ID == appointment.PatientID {
			patientName = p.FullName
		}
	}
	if doctorName == "" || patientName == "" {
		return "", "", errors.New("appointment party profile not found")
	}
	return doctorName, patientName, nil
}

type eventMessages struct {
	kind         entity.NotificationType
	patientTitle string
	patientText  string
	doctorTitle  string
	doctorText   string
}

func composeMessages(a *entity.Appointment, event AppointmentEvent, doctorName, patientName string) (eventMessages, error) {
	date := a.AppointmentDate.In(time.UTC).Format(displayDateLayout)
	at := a.AppointmentTime.String()

	var m eventMessages
	switch event {
	case AppointmentEventBooked:
		m.kind = entity.NotificationAppointmentConfirmed
		m.patientTitle = "Appointment Booked Successfully"
		m.patientText = fmt.Sprintf("Your appointment with Dr. %s has been scheduled for %s at %s.", doctorName, date, at)
		m.doctorTitle = "New Appointment Booked"
		m.doctorText = fmt.Sprintf("%s has booked an appointment for %s at %s. Reason: %s", patientName, date, at, a.ReasonForVisit)
		return m, nil
	case AppointmentEventConfirmed:
		m.kind = entity.NotificationAppointmentConfirmed
		m.patientTitle = "Appointment Confirmed"
		m.patientText = fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been confirmed.", doctorName, date, at)
	case AppointmentEventCancelled:
		m.kind = entity.NotificationAppointmentCancelled
		m.patientTitle = "Appointment Cancelled"
		m.patientText = fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been cancelled.", doctorName, date, at)
	case AppointmentEventReminder:
		m.kind = entity.NotificationAppointmentReminder
		m.patientTitle = "Appointment Reminder"
		m.patientText = fmt.Sprintf("Reminder: Your appointment with Dr. %s is tomorrow at %s.", doctorName, at)
	default:
		return m, fmt.Errorf("unknown appointment event %q", event)
	}

	m.doctorTitle = m.patientTitle
	m.doctorText = strings.Replace(m.patientText, "Your appointment", "Appointment with "+patientName, 1)
	return m, nil
}
