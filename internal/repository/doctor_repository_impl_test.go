package repository

import (
	"testing"

	"medibook/internal/domain/entity"
	"medibook/internal/testutil"
)

func TestDoctorSearch(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDoctorRepository()

	testutil.CreateDoctor(t, db, "Dr. Zed Zane", "Dermatology")
	testutil.CreateDoctor(t, db, "Dr. Amy Adams", "Cardiology")
	inactive := testutil.CreateDoctor(t, db, "Dr. Carl Cardio", "Cardiology")
	inactive.IsActive = false
	if err := repo.Update(db, inactive); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	tests := []struct {
		name   string
		filter *entity.DoctorFilter
		want   []string
	}{
		{"all active ordered by name", nil, []string{"Dr. Amy Adams", "Dr. Zed Zane"}},
		{"by specialization", &entity.DoctorFilter{Specialization: "cardio"}, []string{"Dr. Amy Adams"}},
		{"by name", &entity.DoctorFilter{Name: "ZANE"}, []string{"Dr. Zed Zane"}},
		{"no match", &entity.DoctorFilter{Name: "nobody"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doctors, err := repo.Search(db, tt.filter)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(doctors) != len(tt.want) {
				t.Fatalf("Search() = %d doctors, want %d", len(doctors), len(tt.want))
			}
			for i, d := range doctors {
				if d.Profile == nil || d.Profile.FullName != tt.want[i] {
					t.Errorf("doctor[%d] = %+v, want %s", i, d.Profile, tt.want[i])
				}
			}
		})
	}
}

func TestDoctorUpdateAvailableDays(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDoctorRepository()
	d := testutil.CreateDoctor(t, db, "Dr. Ada", "Cardiology")

	if err := repo.UpdateAvailableDays(db, d.ID, "Monday,Friday"); err != nil {
		t.Fatalf("UpdateAvailableDays() error = %v", err)
	}
	got, err := repo.FindByID(db, d.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID() = %v, %v", got, err)
	}
	if days := got.AvailableDayList(); len(days) != 2 || days[1] != "Friday" {
		t.Errorf("AvailableDayList() = %v", days)
	}
	if !got.ConsultationFee.Equal(d.ConsultationFee) {
		t.Errorf("fee = %s, want %s", got.ConsultationFee, d.ConsultationFee)
	}
}
