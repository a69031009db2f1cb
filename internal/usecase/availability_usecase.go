package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

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
	ErrValidation      = errors.New("validation failed")
	ErrRuleNotFound    = errors.New("availability rule not found")
	ErrOverlappingRule = errors.New("availability rule overlaps an existing active rule")
)

type AvailabilityUsecase interface {
	CreateRule(ctx context.Context, doctorID uuid.UUID, req *dto.CreateAvailabilityRuleRequest) (*dto.AvailabilityRuleResponse, error)
	ListRules(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityRuleListResponse, error)
	SetRuleActive(ctx context.Context, doctorID, ruleID uuid.UUID, req *dto.UpdateAvailabilityRuleRequest) (*dto.AvailabilityRuleResponse, error)
	DeleteRule(ctx context.Context, doctorID, ruleID uuid.UUID) error
	GetSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.SlotsResponse, error)
	// Slots returns the candidate and bookable slot starts for the doctor on date.
	// An inactive doctor has no candidates.
	Slots(ctx context.Context, doctorID uuid.UUID, date entity.Date) (candidate, bookable []entity.TimeOfDay, err error)
}

type availabilityUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	ruleRepo        repository.AvailabilityRuleRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	clock           *Clock
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ruleRepo repository.AvailabilityRuleRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	clock *Clock,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:              db,
		log:             log,
		ruleRepo:        ruleRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		clock:           clock,
	}
}

func (u *availabilityUsecase) CreateRule(ctx context.Context, doctorID uuid.UUID, req *dto.CreateAvailabilityRuleRequest) (*dto.AvailabilityRuleResponse, error) {
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: day_of_week must be between 0 (Sunday) and 6", ErrValidation)
	}
	start, err := entity.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time must be HH:MM", ErrValidation)
	}
	end, err := entity.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time must be HH:MM", ErrValidation)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start_time must be before end_time", ErrValidation)
	}

	rule := &entity.AvailabilityRule{
		DoctorID:  doctorID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(tx, doctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		existing, err := u.ruleRepo.FindActiveByDoctorAndDay(tx, doctorID, rule.DayOfWeek)
		if err != nil {
			return err
		}
		if availability.FindOverlap(existing, rule) != nil {
			return ErrOverlappingRule
		}

		if err := u.ruleRepo.Create(tx, rule); err != nil {
			return err
		}
		return u.refreshAvailableDays(tx, doctorID)
	})
	if err != nil {
		if !errors.Is(err, ErrDoctorNotFound) && !errors.Is(err, ErrOverlappingRule) {
			u.log.Warnf("Failed to create availability rule for doctor %s: %+v", doctorID, err)
		}
		return nil, err
	}

	_ = u.auditService.LogCreate(ctx, nil, &doctorID, entity.AuditActionAvailabilityCreate, "availability_rule", rule.ID.String(), converter.AvailabilityRuleToResponse(rule))
	return converter.AvailabilityRuleToResponse(rule), nil
}

func (u *availabilityUsecase) ListRules(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityRuleListResponse, error) {
	rules, err := u.ruleRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find availability rules for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AvailabilityRuleListResponse{
		Rules: converter.AvailabilityRulesToResponses(rules),
		Total: len(rules),
	}, nil
}

// SetRuleActive toggles a rule. Re-activating re-checks the overlap invariant.
func (u *availabilityUsecase) SetRuleActive(ctx context.Context, doctorID, ruleID uuid.UUID, req *dto.UpdateAvailabilityRuleRequest) (*dto.AvailabilityRuleResponse, error) {
	if req.IsActive == nil {
		return nil, fmt.Errorf("%w: is_active is required", ErrValidation)
	}

	var rule *entity.AvailabilityRule
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rule, err = u.ruleRepo.FindByID(tx, ruleID)
		if err != nil {
			return err
		}
		if rule == nil || rule.DoctorID != doctorID {
			return ErrRuleNotFound
		}

		if *req.IsActive && !rule.IsActive {
			existing, err := u.ruleRepo.FindActiveByDoctorAndDay(tx, doctorID, rule.DayOfWeek)
			if err != nil {
				return err
			}
			if availability.FindOverlap(existing, rule) != nil {
				return ErrOverlappingRule
			}
		}

		rule.IsActive = *req.IsActive
		if err := u.ruleRepo.Update(tx, rule); err != nil {
			return err
		}
		return u.refreshAvailableDays(tx, doctorID)
	})
	if err != nil {
		if !errors.Is(err, ErrRuleNotFound) && !errors.Is(err, ErrOverlappingRule) {
			u.log.Warnf("Failed to update availability rule %s: %+v", ruleID, err)
		}
		return nil, err
	}

	_ = u.auditService.LogUpdate(ctx, nil, &doctorID, entity.AuditActionAvailabilityUpdate, "availability_rule", ruleID.String(), nil, map[string]interface{}{"is_active": rule.IsActive})
	return converter.AvailabilityRuleToResponse(rule), nil
}

func (u *availabilityUsecase) DeleteRule(ctx context.Context, doctorID, ruleID uuid.UUID) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rule, err := u.ruleRepo.FindByID(tx, ruleID)
		if err != nil {
			return err
		}
		if rule == nil || rule.DoctorID != doctorID {
			return ErrRuleNotFound
		}
		if _, err := u.ruleRepo.Delete(tx, ruleID); err != nil {
			return err
		}
		return u.refreshAvailableDays(tx, doctorID)
	})
	if err != nil {
		if !errors.Is(err, ErrRuleNotFound) {
			u.log.Warnf("Failed to delete availability rule %s: %+v", ruleID, err)
		}
		return err
	}

	_ = u.auditService.LogDelete(ctx, nil, &doctorID, entity.AuditActionAvailabilityDelete, "availability_rule", ruleID.String(), nil)
	return nil
}

func (u *availabilityUsecase) GetSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.SlotsResponse, error) {
	day, err := entity.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	candidate, bookable, err := u.Slots(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	return &dto.SlotsResponse{
		DoctorID:  doctorID,
		Date:      day.String(),
		Candidate: converter.TimesToStrings(candidate),
		Bookable:  converter.TimesToStrings(bookable),
	}, nil
}

// Slots is a snapshot read; exclusivity is decided by the insert, not here.
func (u *availabilityUsecase) Slots(ctx context.Context, doctorID uuid.UUID, date entity.Date) ([]entity.TimeOfDay, []entity.TimeOfDay, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, nil, err
	}
	if doctor == nil {
		return nil, nil, ErrDoctorNotFound
	}
	if !doctor.IsActive {
		return []entity.TimeOfDay{}, []entity.TimeOfDay{}, nil
	}

	rules, err := u.ruleRepo.FindActiveByDoctorAndDay(db, doctorID, int(date.Weekday()))
	if err != nil {
		u.log.Warnf("Failed to find availability rules for doctor %s: %+v", doctorID, err)
		return nil, nil, err
	}

	candidate := availability.CandidateSlots(rules, date, u.clock.Today())
	if len(candidate) == 0 {
		return candidate, []entity.TimeOfDay{}, nil
	}

	appointments, err := u.appointmentRepo.FindActiveByDoctorAndDate(db, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s on %s: %+v", doctorID, date, err)
		return nil, nil, err
	}

	return candidate, availability.BookableSlots(candidate, appointments, date), nil
}

// refreshAvailableDays rebuilds the doctor's weekday cache from the active rules.
func (u *availabilityUsecase) refreshAvailableDays(tx *gorm.DB, doctorID uuid.UUID) error {
	rules, err := u.ruleRepo.FindByDoctorID(tx, doctorID)
	if err != nil {
		return err
	}
	return u.doctorRepo.UpdateAvailableDays(tx, doctorID, strings.Join(availability.DayNames(rules), ","))
}
