package usecase

import (
	"context"
	"testing"
	"time"

	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/testutil"

	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func availableDays(t *testing.T, f *fixture) string {
	t.Helper()
	var d entity.Doctor
	if err := f.db.First(&d, "id = ?", f.doctor.ID).Error; err != nil {
		t.Fatalf("load doctor: %v", err)
	}
	return d.AvailableDays
}

func TestCreateRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rule, err := f.availability.CreateRule(ctx, f.doctor.ID, &dto.CreateAvailabilityRuleRequest{
		DayOfWeek: intPtr(int(time.Wednesday)), StartTime: "13:00", EndTime: "17:00",
	})
	if err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}
	if rule.DayName != "Wednesday" || rule.StartTime != "13:00" || !rule.IsActive {
		t.Errorf("rule = %+v", rule)
	}
	if got := availableDays(t, f); got != "Monday,Wednesday" {
		t.Errorf("available days = %q", got)
	}

	tests := []struct {
		name string
		req  dto.CreateAvailabilityRuleRequest
		want error
	}{
		{"missing day", dto.CreateAvailabilityRuleRequest{StartTime: "09:00", EndTime: "10:00"}, ErrValidation},
		{"day out of range", dto.CreateAvailabilityRuleRequest{DayOfWeek: intPtr(7), StartTime: "09:00", EndTime: "10:00"}, ErrValidation},
		{"bad start", dto.CreateAvailabilityRuleRequest{DayOfWeek: intPtr(1), StartTime: "nine", EndTime: "10:00"}, ErrValidation},
		{"inverted", dto.CreateAvailabilityRuleRequest{DayOfWeek: intPtr(1), StartTime: "10:00", EndTime: "09:00"}, ErrValidation},
		{"overlap", dto.CreateAvailabilityRuleRequest{DayOfWeek: intPtr(1), StartTime: "11:30", EndTime: "13:00"}, ErrOverlappingRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.availability.CreateRule(ctx, f.doctor.ID, &req)
			assertErrorIs(t, err, tt.want)
		})
	}

	// touching intervals are allowed
	if _, err := f.availability.CreateRule(ctx, f.doctor.ID, &dto.CreateAvailabilityRuleRequest{
		DayOfWeek: intPtr(1), StartTime: "12:00", EndTime: "13:00",
	}); err != nil {
		t.Errorf("adjacent CreateRule() error = %v", err)
	}

	_, err = f.availability.CreateRule(ctx, uuid.New(), &dto.CreateAvailabilityRuleRequest{
		DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "10:00",
	})
	assertErrorIs(t, err, ErrDoctorNotFound)
}

func TestSetRuleActiveAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rules, err := f.availability.ListRules(ctx, f.doctor.ID)
	if err != nil || rules.Total != 1 {
		t.Fatalf("ListRules() = %+v, %v", rules, err)
	}
	ruleID := rules.Rules[0].ID

	if _, err := f.availability.SetRuleActive(ctx, f.doctor.ID, ruleID, &dto.UpdateAvailabilityRuleRequest{IsActive: boolPtr(false)}); err != nil {
		t.Fatalf("SetRuleActive(false) error = %v", err)
	}
	if got := availableDays(t, f); got != "" {
		t.Errorf("available days after deactivate = %q", got)
	}

	candidate, _, err := f.availability.Slots(ctx, f.doctor.ID, mondayDate)
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	if len(candidate) != 0 {
		t.Errorf("candidate with inactive rule = %v", candidate)
	}

	// a rule created while the old one is off blocks re-activation
	testutil.CreateRule(t, f.db, f.doctor.ID, time.Monday, entity.NewTimeOfDay(10, 0), entity.NewTimeOfDay(11, 0))
	_, err = f.availability.SetRuleActive(ctx, f.doctor.ID, ruleID, &dto.UpdateAvailabilityRuleRequest{IsActive: boolPtr(true)})
	assertErrorIs(t, err, ErrOverlappingRule)

	other := testutil.CreateDoctor(t, f.db, "Other", "Dermatology")
	assertErrorIs(t, f.availability.DeleteRule(ctx, other.ID, ruleID), ErrRuleNotFound)

	if err := f.availability.DeleteRule(ctx, f.doctor.ID, ruleID); err != nil {
		t.Fatalf("DeleteRule() error = %v", err)
	}
	assertErrorIs(t, f.availability.DeleteRule(ctx, f.doctor.ID, ruleID), ErrRuleNotFound)
}

func TestGetSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.db.Create(&entity.Appointment{
		DoctorID:        f.doctor.ID,
		PatientID:       f.patient.ID,
		AppointmentDate: mondayDate,
		AppointmentTime: entity.NewTimeOfDay(10, 0),
		DurationMinutes: 30,
		ReasonForVisit:  "x",
		Status:          entity.AppointmentStatusConfirmed,
	})

	slots, err := f.availability.GetSlots(ctx, f.doctor.ID, mondayDate.String())
	if err != nil {
		t.Fatalf("GetSlots() error = %v", err)
	}
	want := []string{"09:00", "09:30", "10:30", "11:00", "11:30"}
	if len(slots.Bookable) != len(want) {
		t.Fatalf("bookable = %v, want %v", slots.Bookable, want)
	}
	for i := range want {
		if slots.Bookable[i] != want[i] {
			t.Errorf("bookable[%d] = %s, want %s", i, slots.Bookable[i], want[i])
		}
	}

	past, err := f.availability.GetSlots(ctx, f.doctor.ID, "2029-12-31")
	if err != nil {
		t.Fatalf("GetSlots(past) error = %v", err)
	}
	if len(past.Candidate) != 0 || len(past.Bookable) != 0 {
		t.Errorf("past slots = %+v", past)
	}

	_, err = f.availability.GetSlots(ctx, f.doctor.ID, "07/01/2030")
	assertErrorIs(t, err, ErrValidation)
	_, err = f.availability.GetSlots(ctx, uuid.New(), mondayDate.String())
	assertErrorIs(t, err, ErrDoctorNotFound)
}
