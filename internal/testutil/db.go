// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"medibook/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
// A single connection keeps every query on the same in-memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&entity.Profile{},
		&entity.Doctor{},
		&entity.AvailabilityRule{},
		&entity.Appointment{},
		&entity.Notification{},
		&entity.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreatePatient inserts a patient profile.
func CreatePatient(t testing.TB, db *gorm.DB, name string) *entity.Profile {
	t.Helper()
	p := &entity.Profile{
		ID:       uuid.New(),
		Role:     entity.RolePatient,
		FullName: name,
		Email:    uuid.NewString() + "@patient.test",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return p
}

// CreateDoctor inserts a doctor profile plus its doctor row.
func CreateDoctor(t testing.TB, db *gorm.DB, name, specialization string) *entity.Doctor {
	t.Helper()
	p := &entity.Profile{
		ID:       uuid.New(),
		Role:     entity.RoleDoctor,
		FullName: name,
		Email:    uuid.NewString() + "@doctor.test",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create doctor profile: %v", err)
	}
	d := &entity.Doctor{
		ID:                p.ID,
		Specialization:    specialization,
		LicenseNumber:     "LIC-" + p.ID.String()[:8],
		YearsOfExperience: 5,
		ConsultationFee:   decimal.NewFromInt(150),
		IsActive:          true,
	}
	if err := db.Omit("Profile", "Rules").Create(d).Error; err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	d.Profile = p
	return d
}

// CreateRule inserts an active weekly rule.
func CreateRule(t testing.TB, db *gorm.DB, doctorID uuid.UUID, day time.Weekday, start, end entity.TimeOfDay) *entity.AvailabilityRule {
	t.Helper()
	r := &entity.AvailabilityRule{
		DoctorID:  doctorID,
		DayOfWeek: int(day),
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("create rule: %v", err)
	}
	return r
}

// NextWeekday returns the first date strictly after from that falls on day.
func NextWeekday(from entity.Date, day time.Weekday) entity.Date {
	d := from.AddDays(1)
	for d.Weekday() != day {
		d = d.AddDays(1)
	}
	return d
}
