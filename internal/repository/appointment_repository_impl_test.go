package repository

import (
	"errors"
	"testing"
	"time"

	"medibook/internal/domain/entity"
	domainRepo "medibook/internal/domain/repository"
	"medibook/internal/testutil"
)

var slotDate = entity.Date{Year: 2030, Month: time.January, Day: 7}

func TestAppointmentCreateRejectsDuplicateActiveSlot(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	doctor := testutil.CreateDoctor(t, db, "Dr. Ada", "Cardiology")
	first := testutil.CreatePatient(t, db, "First Patient")
	second := testutil.CreatePatient(t, db, "Second Patient")

	newAppointment := func(patientID *entity.Profile) *entity.Appointment {
		return &entity.Appointment{
			DoctorID:        doctor.ID,
			PatientID:       patientID.ID,
			AppointmentDate: slotDate,
			AppointmentTime: entity.NewTimeOfDay(9, 0),
			DurationMinutes: 30,
			ReasonForVisit:  "checkup",
			Status:          entity.AppointmentStatusScheduled,
		}
	}

	original := newAppointment(first)
	if err := repo.Create(db, original); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(db, newAppointment(second))
	if !errors.Is(err, domainRepo.ErrDuplicateSlot) {
		t.Fatalf("Create() duplicate error = %v, want ErrDuplicateSlot", err)
	}

	// cancelling frees the slot for a new booking
	affected, err := repo.TransitionStatus(db, original.ID, entity.AppointmentStatusScheduled, entity.AppointmentStatusCancelled)
	if err != nil || affected != 1 {
		t.Fatalf("TransitionStatus() = %d, %v", affected, err)
	}
	if err := repo.Create(db, newAppointment(second)); err != nil {
		t.Fatalf("Create() after cancel error = %v", err)
	}
}

func TestAppointmentTransitionStatusIsConditional(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	doctor := testutil.CreateDoctor(t, db, "Dr. Ada", "Cardiology")
	patient := testutil.CreatePatient(t, db, "Pat")

	a := &entity.Appointment{
		DoctorID:        doctor.ID,
		PatientID:       patient.ID,
		AppointmentDate: slotDate,
		AppointmentTime: entity.NewTimeOfDay(10, 0),
		ReasonForVisit:  "fever",
		Status:          entity.AppointmentStatusScheduled,
	}
	if err := repo.Create(db, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	affected, err := repo.TransitionStatus(db, a.ID, entity.AppointmentStatusScheduled, entity.AppointmentStatusConfirmed)
	if err != nil || affected != 1 {
		t.Fatalf("first confirm = %d, %v", affected, err)
	}
	affected, err = repo.TransitionStatus(db, a.ID, entity.AppointmentStatusScheduled, entity.AppointmentStatusConfirmed)
	if err != nil || affected != 0 {
		t.Fatalf("second confirm = %d, %v; want 0 rows", affected, err)
	}

	got, err := repo.FindByID(db, a.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID() = %v, %v", got, err)
	}
	if got.Status != entity.AppointmentStatusConfirmed {
		t.Errorf("status = %s, want confirmed", got.Status)
	}
	if got.AppointmentDate != slotDate || got.AppointmentTime != entity.NewTimeOfDay(10, 0) {
		t.Errorf("round trip = %s %s", got.AppointmentDate, got.AppointmentTime)
	}
	if got.DurationMinutes != entity.DefaultAppointmentDuration {
		t.Errorf("duration = %d, want default", got.DurationMinutes)
	}
	if got.Doctor == nil || got.Doctor.Profile == nil || got.Doctor.Profile.FullName != "Dr. Ada" {
		t.Errorf("doctor profile not preloaded: %+v", got.Doctor)
	}
	if got.Patient == nil || got.Patient.FullName != "Pat" {
		t.Errorf("patient not preloaded: %+v", got.Patient)
	}
}

func TestAppointmentQueries(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	doctor := testutil.CreateDoctor(t, db, "Dr. Ada", "Cardiology")
	patient := testutil.CreatePatient(t, db, "Pat")

	seed := []struct {
		date   entity.Date
		time   entity.TimeOfDay
		status entity.AppointmentStatus
	}{
		{slotDate, entity.NewTimeOfDay(11, 0), entity.AppointmentStatusScheduled},
		{slotDate, entity.NewTimeOfDay(9, 0), entity.AppointmentStatusConfirmed},
		{slotDate, entity.NewTimeOfDay(10, 0), entity.AppointmentStatusCancelled},
		{slotDate.AddDays(1), entity.NewTimeOfDay(9, 0), entity.AppointmentStatusScheduled},
		{slotDate.AddDays(5), entity.NewTimeOfDay(9, 0), entity.AppointmentStatusScheduled},
	}
	for _, s := range seed {
		a := &entity.Appointment{
			DoctorID:        doctor.ID,
			PatientID:       patient.ID,
			AppointmentDate: s.date,
			AppointmentTime: s.time,
			ReasonForVisit:  "visit",
			Status:          s.status,
		}
		if err := repo.Create(db, a); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	active, err := repo.FindActiveByDoctorAndDate(db, doctor.ID, slotDate)
	if err != nil {
		t.Fatalf("FindActiveByDoctorAndDate() error = %v", err)
	}
	if len(active) != 2 || active[0].AppointmentTime != entity.NewTimeOfDay(9, 0) {
		t.Errorf("active = %+v, want 09:00 and 11:00", active)
	}

	ranged, err := repo.FindByDoctorAndDateRange(db, doctor.ID, slotDate, slotDate.AddDays(1))
	if err != nil {
		t.Fatalf("FindByDoctorAndDateRange() error = %v", err)
	}
	if len(ranged) != 4 {
		t.Fatalf("ranged = %d rows, want 4", len(ranged))
	}
	for i := 1; i < len(ranged); i++ {
		prev, cur := ranged[i-1], ranged[i]
		if cur.AppointmentDate.Before(prev.AppointmentDate) ||
			(cur.AppointmentDate == prev.AppointmentDate && cur.AppointmentTime < prev.AppointmentTime) {
			t.Errorf("range not ordered at %d: %s %s after %s %s", i, cur.AppointmentDate, cur.AppointmentTime, prev.AppointmentDate, prev.AppointmentTime)
		}
	}

	mine, err := repo.FindByPatientID(db, patient.ID)
	if err != nil || len(mine) != 5 {
		t.Fatalf("FindByPatientID() = %d, %v", len(mine), err)
	}
	if mine[0].AppointmentDate != slotDate.AddDays(5) {
		t.Errorf("patient list should be newest first, got %s", mine[0].AppointmentDate)
	}
}

func TestAppointmentReminderClaim(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	doctor := testutil.CreateDoctor(t, db, "Dr. Ada", "Cardiology")
	patient := testutil.CreatePatient(t, db, "Pat")

	due := &entity.Appointment{
		DoctorID: doctor.ID, PatientID: patient.ID, AppointmentDate: slotDate,
		AppointmentTime: entity.NewTimeOfDay(9, 0), ReasonForVisit: "visit", Status: entity.AppointmentStatusScheduled,
	}
	personal := &entity.Appointment{
		DoctorID: doctor.ID, PatientID: doctor.ID, AppointmentDate: slotDate,
		AppointmentTime: entity.NewTimeOfDay(12, 0), ReasonForVisit: "lunch", Status: entity.AppointmentStatusConfirmed,
	}
	for _, a := range []*entity.Appointment{due, personal} {
		if err := repo.Create(db, a); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	list, err := repo.FindDueReminders(db, slotDate)
	if err != nil {
		t.Fatalf("FindDueReminders() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != due.ID {
		t.Fatalf("FindDueReminders() = %+v, want only the patient appointment", list)
	}

	now := time.Now()
	if n, err := repo.MarkReminderSent(db, due.ID, now); err != nil || n != 1 {
		t.Fatalf("MarkReminderSent() = %d, %v", n, err)
	}
	if n, err := repo.MarkReminderSent(db, due.ID, now); err != nil || n != 0 {
		t.Fatalf("second MarkReminderSent() = %d, %v; want 0", n, err)
	}
	list, err = repo.FindDueReminders(db, slotDate)
	if err != nil || len(list) != 0 {
		t.Fatalf("FindDueReminders() after claim = %d, %v", len(list), err)
	}
}
