package availability

import (
	"reflect"
	"testing"
	"time"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	monday    = entity.Date{Year: 2026, Month: 10, Day: 19}
	sunday    = entity.Date{Year: 2026, Month: 10, Day: 18}
	tuesday   = entity.Date{Year: 2026, Month: 10, Day: 20}
	ruleStart = entity.NewTimeOfDay(9, 0)
	ruleEnd   = entity.NewTimeOfDay(12, 0)
)

func mondayMorning() []entity.AvailabilityRule {
	return []entity.AvailabilityRule{
		{ID: uuid.New(), DayOfWeek: 1, StartTime: ruleStart, EndTime: ruleEnd, IsActive: true},
	}
}

func times(hm ...string) []entity.TimeOfDay {
	out := make([]entity.TimeOfDay, 0, len(hm))
	for _, s := range hm {
		t, err := entity.ParseTimeOfDay(s)
		if err != nil {
			panic(err)
		}
		out = append(out, t)
	}
	return out
}

func TestCandidateSlots(t *testing.T) {
	tests := []struct {
		name  string
		rules []entity.AvailabilityRule
		date  entity.Date
		today entity.Date
		want  []entity.TimeOfDay
	}{
		{
			name:  "monday morning rule",
			rules: mondayMorning(),
			date:  monday,
			today: sunday,
			want:  times("09:00", "09:30", "10:00", "10:30", "11:00", "11:30"),
		},
		{
			name:  "today is bookable",
			rules: mondayMorning(),
			date:  monday,
			today: monday,
			want:  times("09:00", "09:30", "10:00", "10:30", "11:00", "11:30"),
		},
		{
			name:  "past date is empty",
			rules: mondayMorning(),
			date:  monday,
			today: tuesday,
			want:  []entity.TimeOfDay{},
		},
		{
			name:  "no rule for weekday",
			rules: mondayMorning(),
			date:  tuesday,
			today: sunday,
			want:  []entity.TimeOfDay{},
		},
		{
			name: "inactive rule is ignored",
			rules: []entity.AvailabilityRule{
				{DayOfWeek: 1, StartTime: ruleStart, EndTime: ruleEnd, IsActive: false},
			},
			date:  monday,
			today: sunday,
			want:  []entity.TimeOfDay{},
		},
		{
			name: "two windows are merged in order",
			rules: []entity.AvailabilityRule{
				{DayOfWeek: 1, StartTime: entity.NewTimeOfDay(14, 0), EndTime: entity.NewTimeOfDay(15, 0), IsActive: true},
				{DayOfWeek: 1, StartTime: entity.NewTimeOfDay(8, 0), EndTime: entity.NewTimeOfDay(9, 0), IsActive: true},
			},
			date:  monday,
			today: sunday,
			want:  times("08:00", "08:30", "14:00", "14:30"),
		},
		{
			name: "window shorter than a slot still yields its start",
			rules: []entity.AvailabilityRule{
				{DayOfWeek: 1, StartTime: entity.NewTimeOfDay(9, 0), EndTime: entity.NewTimeOfDay(9, 15), IsActive: true},
			},
			date:  monday,
			today: sunday,
			want:  times("09:00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CandidateSlots(tt.rules, tt.date, tt.today)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CandidateSlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidateSlotsDeterministic(t *testing.T) {
	rules := mondayMorning()
	first := CandidateSlots(rules, monday, sunday)
	for i := 0; i < 10; i++ {
		if got := CandidateSlots(rules, monday, sunday); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: CandidateSlots() = %v, want %v", i, got, first)
		}
	}
}

func TestBookableSlots(t *testing.T) {
	candidates := CandidateSlots(mondayMorning(), monday, sunday)

	tests := []struct {
		name         string
		appointments []entity.Appointment
		want         []entity.TimeOfDay
	}{
		{
			name: "confirmed appointment blocks its slot",
			appointments: []entity.Appointment{
				{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(10, 0), DurationMinutes: 30, Status: entity.AppointmentStatusConfirmed},
			},
			want: times("09:00", "09:30", "10:30", "11:00", "11:30"),
		},
		{
			name: "scheduled appointment blocks its slot",
			appointments: []entity.Appointment{
				{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(9, 0), DurationMinutes: 30, Status: entity.AppointmentStatusScheduled},
			},
			want: times("09:30", "10:00", "10:30", "11:00", "11:30"),
		},
		{
			name: "cancelled and completed do not block",
			appointments: []entity.Appointment{
				{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(9, 0), DurationMinutes: 30, Status: entity.AppointmentStatusCancelled},
				{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(9, 30), DurationMinutes: 30, Status: entity.AppointmentStatusCompleted},
			},
			want: candidates,
		},
		{
			name: "other dates do not block",
			appointments: []entity.Appointment{
				{AppointmentDate: tuesday, AppointmentTime: entity.NewTimeOfDay(9, 0), DurationMinutes: 30, Status: entity.AppointmentStatusConfirmed},
			},
			want: candidates,
		},
		{
			name: "hour long appointment blocks two slots",
			appointments: []entity.Appointment{
				{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(10, 0), DurationMinutes: 60, Status: entity.AppointmentStatusConfirmed},
			},
			want: times("09:00", "09:30", "11:00", "11:30"),
		},
		{
			name: "off-grid appointment blocks both overlapped slots",
			appointments: []entity.Appointment{
				{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(9, 45), DurationMinutes: 30, Status: entity.AppointmentStatusConfirmed},
			},
			want: times("09:00", "10:30", "11:00", "11:30"),
		},
		{
			name: "zero duration falls back to one slot",
			appointments: []entity.Appointment{
				{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(11, 30), Status: entity.AppointmentStatusScheduled},
			},
			want: times("09:00", "09:30", "10:00", "10:30", "11:00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BookableSlots(candidates, tt.appointments, monday)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BookableSlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookableSlotsClosure(t *testing.T) {
	candidates := CandidateSlots(mondayMorning(), monday, sunday)
	appointments := []entity.Appointment{
		{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(9, 30), DurationMinutes: 30, Status: entity.AppointmentStatusScheduled},
		{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(11, 0), DurationMinutes: 90, Status: entity.AppointmentStatusConfirmed},
		// outside the rule window
		{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(15, 0), DurationMinutes: 30, Status: entity.AppointmentStatusConfirmed},
	}

	bookable := BookableSlots(candidates, appointments, monday)
	occupied := OccupiedSlots(candidates, appointments, monday)

	for _, s := range bookable {
		if !Contains(candidates, s) {
			t.Errorf("bookable slot %s is not a candidate", s)
		}
		if Contains(occupied, s) {
			t.Errorf("bookable slot %s is occupied", s)
		}
	}
	if len(bookable)+len(occupied) != len(candidates) {
		t.Errorf("bookable %v and occupied %v do not partition %v", bookable, occupied, candidates)
	}
	for i := 1; i < len(bookable); i++ {
		if bookable[i-1] >= bookable[i] {
			t.Errorf("bookable slots not ascending: %v", bookable)
		}
	}
}

func TestDayNames(t *testing.T) {
	rules := []entity.AvailabilityRule{
		{DayOfWeek: 3, IsActive: true},
		{DayOfWeek: 1, IsActive: true},
		{DayOfWeek: 1, IsActive: true},
		{DayOfWeek: 5, IsActive: false},
	}
	want := []string{"Monday", "Wednesday"}
	if got := DayNames(rules); !reflect.DeepEqual(got, want) {
		t.Errorf("DayNames() = %v, want %v", got, want)
	}
}

func TestFindOverlap(t *testing.T) {
	existing := mondayMorning()

	tests := []struct {
		name      string
		candidate entity.AvailabilityRule
		want      bool
	}{
		{"overlapping window", entity.AvailabilityRule{ID: uuid.New(), DayOfWeek: 1, StartTime: entity.NewTimeOfDay(11, 0), EndTime: entity.NewTimeOfDay(13, 0)}, true},
		{"adjacent window", entity.AvailabilityRule{ID: uuid.New(), DayOfWeek: 1, StartTime: ruleEnd, EndTime: entity.NewTimeOfDay(13, 0)}, false},
		{"other day", entity.AvailabilityRule{ID: uuid.New(), DayOfWeek: 2, StartTime: ruleStart, EndTime: ruleEnd}, false},
		{"same rule", entity.AvailabilityRule{ID: existing[0].ID, DayOfWeek: 1, StartTime: ruleStart, EndTime: ruleEnd}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindOverlap(existing, &tt.candidate) != nil
			if got != tt.want {
				t.Errorf("FindOverlap() overlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConflict(t *testing.T) {
	appointments := []entity.Appointment{
		{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(10, 0), DurationMinutes: 60, Status: entity.AppointmentStatusScheduled},
		{AppointmentDate: monday, AppointmentTime: entity.NewTimeOfDay(13, 0), DurationMinutes: 30, Status: entity.AppointmentStatusCancelled},
	}

	tests := []struct {
		name   string
		start  entity.TimeOfDay
		length time.Duration
		want   bool
	}{
		{"ends where appointment starts", entity.NewTimeOfDay(9, 0), time.Hour, false},
		{"straddles start", entity.NewTimeOfDay(9, 30), time.Hour, true},
		{"inside", entity.NewTimeOfDay(10, 30), 15 * time.Minute, true},
		{"starts where appointment ends", entity.NewTimeOfDay(11, 0), time.Hour, false},
		{"cancelled does not conflict", entity.NewTimeOfDay(13, 0), 30 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOccupied(appointments, monday, tt.start, tt.length); got != tt.want {
				t.Errorf("IsOccupied() = %v, want %v", got, tt.want)
			}
		})
	}
}
