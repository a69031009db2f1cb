package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medibook/internal/domain/entity"
	repoImpl "medibook/internal/repository"
	"medibook/internal/service"
	"medibook/internal/testutil"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 2030-01-01 is a Tuesday; mondayDate is the following Monday.
var (
	fixedNow   = time.Date(2030, time.January, 1, 10, 0, 0, 0, time.UTC)
	mondayDate = entity.Date{Year: 2030, Month: time.January, Day: 7}
)

type dispatchedEvent struct {
	appointmentID string
	event         service.AppointmentEvent
}

type fakeDispatcher struct {
	mu     sync.Mutex
	err    error
	events []dispatchedEvent
}

func (f *fakeDispatcher) NotifyAppointmentEvent(ctx context.Context, a *entity.Appointment, event service.AppointmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, dispatchedEvent{appointmentID: a.ID.String(), event: event})
	return f.err
}

func (f *fakeDispatcher) count(event service.AppointmentEvent) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.event == event {
			n++
		}
	}
	return n
}

type fixture struct {
	db           *gorm.DB
	clock        *Clock
	dispatcher   *fakeDispatcher
	availability AvailabilityUsecase
	appointments AppointmentUsecase
	reminders    ReminderUsecase
	doctor       *entity.Doctor
	patient      *entity.Profile
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// newFixture wires the usecases against sqlite with a doctor working Mondays 09:00-12:00.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := quietLogger()
	clock := &Clock{Now: func() time.Time { return fixedNow }, Location: time.UTC}
	dispatcher := &fakeDispatcher{}

	appointmentRepo := repoImpl.NewAppointmentRepository()
	doctorRepo := repoImpl.NewDoctorRepository()
	auditService := service.NewAuditService(db, log, repoImpl.NewAuditLogRepository())

	availabilityUsecase := NewAvailabilityUsecase(db, log, repoImpl.NewAvailabilityRuleRepository(), doctorRepo, appointmentRepo, auditService, clock)

	doctor := testutil.CreateDoctor(t, db, "Grace Hopper", "Cardiology")
	testutil.CreateRule(t, db, doctor.ID, time.Monday, entity.NewTimeOfDay(9, 0), entity.NewTimeOfDay(12, 0))

	return &fixture{
		db:           db,
		clock:        clock,
		dispatcher:   dispatcher,
		availability: availabilityUsecase,
		appointments: NewAppointmentUsecase(db, log, appointmentRepo, doctorRepo, availabilityUsecase, dispatcher, auditService, clock, time.Second),
		reminders:    NewReminderUsecase(db, log, appointmentRepo, dispatcher, auditService, clock),
		doctor:       doctor,
		patient:      testutil.CreatePatient(t, db, "Alan Turing"),
	}
}

func assertErrorIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
