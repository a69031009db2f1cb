package entity

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", NewTimeOfDay(9, 0), false},
		{"23:30", NewTimeOfDay(23, 30), false},
		{"09:00:00", NewTimeOfDay(9, 0), false},
		{"9am", 0, true},
		{"25:00", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  TimeOfDay
	}{
		{"string", "10:30", NewTimeOfDay(10, 30)},
		{"postgres time", "10:30:00.000000", NewTimeOfDay(10, 30)},
		{"bytes", []byte("08:00:00"), NewTimeOfDay(8, 0)},
		{"time", time.Date(0, 1, 1, 14, 0, 0, 0, time.UTC), NewTimeOfDay(14, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TimeOfDay
			if err := got.Scan(tt.value); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Scan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d, err := ParseDate("2026-12-31")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if got := d.AddDays(1).String(); got != "2027-01-01" {
		t.Errorf("AddDays(1) = %s, want 2027-01-01", got)
	}
	if got := d.Weekday(); got != time.Thursday {
		t.Errorf("Weekday() = %v, want Thursday", got)
	}
	if !d.Before(d.AddDays(1)) || d.Before(d) {
		t.Error("Before() ordering is wrong")
	}

	var scanned Date
	if err := scanned.Scan(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if scanned != (Date{Year: 2026, Month: time.October, Day: 19}) {
		t.Errorf("Scan() = %v", scanned)
	}

	if _, err := ParseDate("19/10/2026"); err != ErrInvalidDate {
		t.Errorf("ParseDate() error = %v, want ErrInvalidDate", err)
	}
}

func TestAppointmentPredicates(t *testing.T) {
	doctor := Appointment{Status: AppointmentStatusConfirmed}
	if !doctor.IsActive() || doctor.IsTerminal() {
		t.Error("confirmed should be active and not terminal")
	}
	for _, s := range []AppointmentStatus{AppointmentStatusCompleted, AppointmentStatusCancelled} {
		a := Appointment{Status: s}
		if a.IsActive() || !a.IsTerminal() {
			t.Errorf("%s should be terminal and inactive", s)
		}
	}
	if got := (&Appointment{}).Duration(); got != 30*time.Minute {
		t.Errorf("Duration() = %v, want 30m default", got)
	}
}
