package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"medibook/cmd/bootstrap"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/repository"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

// weekday working blocks given to every seeded doctor
var blocks = [][2]string{{"09:00", "12:00"}, {"13:00", "17:00"}}

func main() {
	doctors := flag.Int("doctors", 10, "number of doctors to create")
	patients := flag.Int("patients", 50, "number of patients to create")
	flag.Parse()

	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	ctx := context.Background()
	log := app.Log
	gofakeit.Seed(time.Now().UnixNano())

	profileRepo := repository.NewProfileRepository()
	doctorRepo := repository.NewDoctorRepository()

	var firstDoctor, firstPatient *entity.Profile

	for i := 0; i < *doctors; i++ {
		var profile *entity.Profile
		err := app.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			profile = fakeProfile(entity.RoleDoctor)
			if err := profileRepo.Create(tx, profile); err != nil {
				return err
			}
			return doctorRepo.Create(tx, &entity.Doctor{
				ID:                profile.ID,
				Specialization:    specialties[gofakeit.Number(0, len(specialties)-1)],
				LicenseNumber:     fmt.Sprintf("LIC-%s", strings.ToUpper(profile.ID.String()[:8])),
				YearsOfExperience: gofakeit.Number(1, 35),
				Bio:               gofakeit.Sentence(12),
				ConsultationFee:   decimal.NewFromInt(int64(gofakeit.Number(50, 300))),
				IsActive:          true,
			})
		})
		if err != nil {
			log.Fatalf("Failed to seed doctor: %v", err)
		}

		for day := int(time.Monday); day <= int(time.Friday); day++ {
			for _, b := range blocks {
				d := day
				req := &dto.CreateAvailabilityRuleRequest{DayOfWeek: &d, StartTime: b[0], EndTime: b[1]}
				if _, err := app.Usecases.Availability.CreateRule(ctx, profile.ID, req); err != nil {
					log.Fatalf("Failed to seed availability for %s: %v", profile.ID, err)
				}
			}
		}

		if firstDoctor == nil {
			firstDoctor = profile
		}
	}
	log.Infof("Seeded %d doctors", *doctors)

	for i := 0; i < *patients; i++ {
		profile := fakeProfile(entity.RolePatient)
		if err := profileRepo.Create(app.DB.WithContext(ctx), profile); err != nil {
			log.Fatalf("Failed to seed patient: %v", err)
		}
		if firstPatient == nil {
			firstPatient = profile
		}
	}
	log.Infof("Seeded %d patients", *patients)

	// Development tokens so the API can be exercised without an identity provider.
	for _, p := range []*entity.Profile{firstDoctor, firstPatient} {
		if p == nil {
			continue
		}
		token, err := app.JWT.GenerateAccessToken(p.ID, string(p.Role))
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Printf("%s %s (%s)\n  %s\n", p.Role, p.FullName, p.ID, token)
	}
}

func fakeProfile(role entity.Role) *entity.Profile {
	return &entity.Profile{
		ID:       uuid.New(),
		Role:     role,
		FullName: gofakeit.Name(),
		Email:    gofakeit.Email(),
		Phone:    gofakeit.Phone(),
	}
}
