package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/availability"
	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"
	"medibook/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotAlreadyTaken    = errors.New("this time slot is no longer available, please select another time")
	ErrDoctorUnavailable   = errors.New("doctor is not available at the requested date and time")
	ErrInvalidTransition   = errors.New("appointment status transition is not allowed")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotAppointmentParty = errors.New("appointment does not belong to you")
)

// NotificationWarning is surfaced to the caller when a write succeeded but its
// notifications could not be delivered.
const NotificationWarning = "Appointment saved, but notifications could not be delivered."

// transition is one edge of the appointment state machine.
type transition struct {
	action     string
	from       []entity.AppointmentStatus
	to         entity.AppointmentStatus
	doctorOnly bool
	event      service.AppointmentEvent
	audit      string
}

var (
	confirmTransition = transition{
		action:     "confirm",
		from:       []entity.AppointmentStatus{entity.AppointmentStatusScheduled},
		to:         entity.AppointmentStatusConfirmed,
		doctorOnly: true,
		event:      service.AppointmentEventConfirmed,
		audit:      entity.AuditActionAppointmentConfirm,
	}
	completeTransition = transition{
		action:     "complete",
		from:       []entity.AppointmentStatus{entity.AppointmentStatusConfirmed},
		to:         entity.AppointmentStatusCompleted,
		doctorOnly: true,
		audit:      entity.AuditActionAppointmentComplete,
	}
	cancelTransition = transition{
		action: "cancel",
		from:   []entity.AppointmentStatus{entity.AppointmentStatusScheduled, entity.AppointmentStatusConfirmed},
		to:     entity.AppointmentStatusCancelled,
		event:  service.AppointmentEventCancelled,
		audit:  entity.AuditActionAppointmentCancel,
	}
)

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResult, error)
	CreatePersonalEvent(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePersonalEventRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, callerID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListDoctorSchedule(ctx context.Context, doctorID uuid.UUID, from, to string) (*dto.AppointmentListResponse, error)
	ConfirmAppointment(ctx context.Context, caller entity.Caller, appointmentID uuid.UUID) (*dto.AppointmentResult, error)
	CompleteAppointment(ctx context.Context, caller entity.Caller, appointmentID uuid.UUID) (*dto.AppointmentResult, error)
	CancelAppointment(ctx context.Context, caller entity.Caller, appointmentID uuid.UUID) (*dto.AppointmentResult, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	availability    AvailabilityUsecase
	dispatcher      service.NotificationDispatcher
	auditService    service.AuditService
	clock           *Clock
	notifyTimeout   time.Duration
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	availability AvailabilityUsecase,
	dispatcher service.NotificationDispatcher,
	auditService service.AuditService,
	clock *Clock,
	notifyTimeout time.Duration,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		availability:    availability,
		dispatcher:      dispatcher,
		auditService:    auditService,
		clock:           clock,
		notifyTimeout:   notifyTimeout,
	}
}

// BookAppointment books a slot for a patient.
//
// Flow:
// 1. Validate date, time and reason (ValidationError, nothing written)
// 2. Re-read the doctor's slots: not a candidate -> DoctorUnavailable, occupied -> SlotAlreadyTaken
// 3. Insert; the partial unique index serializes concurrent requests for the same slot
// 4. Dispatch notifications with a bounded timeout; failures become warnings
func (u *appointmentUsecase) BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResult, error) {
	date, at, err := u.parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.ReasonForVisit)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason for visit is required", ErrValidation)
	}
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	if req.DoctorID == patientID {
		return nil, fmt.Errorf("%w: cannot book an appointment with yourself", ErrValidation)
	}

	candidate, bookable, err := u.availability.Slots(ctx, req.DoctorID, date)
	if err != nil {
		return nil, err
	}
	if !availability.Contains(candidate, at) {
		return nil, ErrDoctorUnavailable
	}
	if !availability.Contains(bookable, at) {
		return nil, ErrSlotAlreadyTaken
	}

	appointment := &entity.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       patientID,
		AppointmentDate: date,
		AppointmentTime: at,
		DurationMinutes: entity.DefaultAppointmentDuration,
		ReasonForVisit:  reason,
		Status:          entity.AppointmentStatusScheduled,
	}

	if err := u.appointmentRepo.Create(u.db.WithContext(ctx), appointment); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, ErrSlotAlreadyTaken
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, patient=%s, at=%s %s", appointment.ID, appointment.DoctorID, patientID, date, at)
	_ = u.auditService.LogCreate(ctx, nil, &patientID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), map[string]interface{}{
		"doctor_id": appointment.DoctorID,
		"date":      date.String(),
		"time":      at.String(),
	})

	warnings := u.dispatch(ctx, appointment, service.AppointmentEventBooked)
	return &dto.AppointmentResult{
		Appointment: *converter.AppointmentToResponse(appointment),
		Warnings:    warnings,
	}, nil
}

// CreatePersonalEvent blocks the doctor's own time. It is not checked against the
// weekly rules but may not overlap an active appointment.
func (u *appointmentUsecase) CreatePersonalEvent(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePersonalEventRequest) (*dto.AppointmentResponse, error) {
	date, at, err := u.parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = entity.DefaultAppointmentDuration
	}
	if duration < 0 || at.Add(time.Duration(duration)*time.Minute) > entity.NewTimeOfDay(24, 0) {
		return nil, fmt.Errorf("%w: event must end on the same day", ErrValidation)
	}

	db := u.db.WithContext(ctx)
	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	existing, err := u.appointmentRepo.FindActiveByDoctorAndDate(db, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}
	if availability.IsOccupied(existing, date, at, time.Duration(duration)*time.Minute) {
		return nil, ErrSlotAlreadyTaken
	}

	event := &entity.Appointment{
		DoctorID:        doctorID,
		PatientID:       doctorID,
		AppointmentDate: date,
		AppointmentTime: at,
		DurationMinutes: duration,
		ReasonForVisit:  title,
		Notes:           strings.TrimSpace(req.Notes),
		Status:          entity.AppointmentStatusConfirmed,
	}

	if err := u.appointmentRepo.Create(db, event); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, ErrSlotAlreadyTaken
		}
		u.log.Warnf("Failed to create personal event: %+v", err)
		return nil, err
	}

	u.log.Infof("Personal event created: id=%s, doctor=%s, at=%s %s", event.ID, doctorID, date, at)
	_ = u.auditService.LogCreate(ctx, nil, &doctorID, entity.AuditActionPersonalEventCreate, "appointment", event.ID.String(), map[string]interface{}{
		"date":             date.String(),
		"time":             at.String(),
		"duration_minutes": duration,
	})

	return converter.AppointmentToResponse(event), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, callerID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.HasParty(callerID) {
		return nil, ErrNotAppointmentParty
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// ListDoctorSchedule returns the doctor's appointments and personal events in [from, to].
// Empty bounds default to today and today+30 days.
func (u *appointmentUsecase) ListDoctorSchedule(ctx context.Context, doctorID uuid.UUID, from, to string) (*dto.AppointmentListResponse, error) {
	today := u.clock.Today()
	fromDate, toDate := today, today.AddDays(30)

	var err error
	if from != "" {
		if fromDate, err = entity.ParseDate(from); err != nil {
			return nil, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrValidation)
		}
	}
	if to != "" {
		if toDate, err = entity.ParseDate(to); err != nil {
			return nil, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrValidation)
		}
	}
	if toDate.Before(fromDate) {
		return nil, fmt.Errorf("%w: to must not be before from", ErrValidation)
	}

	appointments, err := u.appointmentRepo.FindByDoctorAndDateRange(u.db.WithContext(ctx), doctorID, fromDate, toDate)
	if err != nil {
		u.log.Warnf("Failed to find schedule for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) ConfirmAppointment(ctx context.Context, caller entity.Caller, appointmentID uuid.UUID) (*dto.AppointmentResult, error) {
	return u.transition(ctx, caller, appointmentID, confirmTransition)
}

func (u *appointmentUsecase) CompleteAppointment(ctx context.Context, caller entity.Caller, appointmentID uuid.UUID) (*dto.AppointmentResult, error) {
	return u.transition(ctx, caller, appointmentID, completeTransition)
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, caller entity.Caller, appointmentID uuid.UUID) (*dto.AppointmentResult, error) {
	return u.transition(ctx, caller, appointmentID, cancelTransition)
}

// transition applies t with a single-row conditional update on the observed status, so
// two concurrent attempts cannot both succeed.
func (u *appointmentUsecase) transition(ctx context.Context, caller entity.Caller, appointmentID uuid.UUID, t transition) (*dto.AppointmentResult, error) {
	db := u.db.WithContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.HasParty(caller.ID) {
		return nil, ErrNotAppointmentParty
	}
	if t.doctorOnly && caller.ID != appointment.DoctorID {
		return nil, fmt.Errorf("%w: only the doctor can %s an appointment", ErrInvalidTransition, t.action)
	}

	from := appointment.Status
	if !statusIn(from, t.from) {
		return nil, fmt.Errorf("%w: cannot %s a %s appointment", ErrInvalidTransition, t.action, from)
	}

	affected, err := u.appointmentRepo.TransitionStatus(db, appointmentID, from, t.to)
	if err != nil {
		u.log.Warnf("Failed to %s appointment %s: %+v", t.action, appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: appointment is no longer %s", ErrInvalidTransition, from)
	}

	appointment.Status = t.to
	appointment.UpdatedAt = u.clock.Now()
	u.log.Infof("Appointment %s: id=%s, by=%s, %s -> %s", t.action, appointmentID, caller.ID, from, t.to)
	_ = u.auditService.LogUpdate(ctx, nil, &caller.ID, t.audit, "appointment", appointmentID.String(),
		map[string]interface{}{"status": from}, map[string]interface{}{"status": t.to})

	var warnings []string
	if t.event != "" && !appointment.IsPersonalEvent() {
		warnings = u.dispatch(ctx, appointment, t.event)
	}

	return &dto.AppointmentResult{
		Appointment: *converter.AppointmentToResponse(appointment),
		Warnings:    warnings,
	}, nil
}

// dispatch runs the notification fan-out detached from the request's cancellation but
// bounded by notifyTimeout. Failures never reach the caller as errors.
func (u *appointmentUsecase) dispatch(ctx context.Context, appointment *entity.Appointment, event service.AppointmentEvent) []string {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.notifyTimeout)
	defer cancel()

	if err := u.dispatcher.NotifyAppointmentEvent(notifyCtx, appointment, event); err != nil {
		u.log.Errorf("Failed to deliver %s notifications for appointment %s: %+v", event, appointment.ID, err)
		return []string{NotificationWarning}
	}
	return nil
}

func (u *appointmentUsecase) parseSlot(date, at string) (entity.Date, entity.TimeOfDay, error) {
	if strings.TrimSpace(date) == "" {
		return entity.Date{}, 0, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if strings.TrimSpace(at) == "" {
		return entity.Date{}, 0, fmt.Errorf("%w: time is required", ErrValidation)
	}
	d, err := entity.ParseDate(date)
	if err != nil {
		return entity.Date{}, 0, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	t, err := entity.ParseTimeOfDay(at)
	if err != nil {
		return entity.Date{}, 0, fmt.Errorf("%w: time must be HH:MM", ErrValidation)
	}
	if d.Before(u.clock.Today()) {
		return entity.Date{}, 0, fmt.Errorf("%w: date must be today or later", ErrValidation)
	}
	return d, t, nil
}

func statusIn(s entity.AppointmentStatus, set []entity.AppointmentStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
