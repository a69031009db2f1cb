package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"
	"medibook/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type DoctorUsecase interface {
	SearchDoctors(ctx context.Context, filter *entity.DoctorFilter) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *doctorUsecase) SearchDoctors(ctx context.Context, filter *entity.DoctorFilter) (*dto.DoctorListResponse, error) {
	if filter != nil {
		filter.Name = strings.TrimSpace(filter.Name)
		filter.Specialization = strings.TrimSpace(filter.Specialization)
	}

	doctors, err := u.doctorRepo.Search(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to search doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

// UpdateProfile applies the non-nil fields of req. Deactivating a doctor removes all
// bookable slots without touching existing appointments.
func (u *doctorUsecase) UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	before := converter.DoctorToResponse(doctor)

	if req.Bio != nil {
		doctor.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.ConsultationFee != nil {
		if req.ConsultationFee.IsNegative() {
			return nil, fmt.Errorf("%w: consultation_fee must not be negative", ErrValidation)
		}
		doctor.ConsultationFee = req.ConsultationFee.Round(2)
	}
	if req.YearsOfExperience != nil {
		if *req.YearsOfExperience < 0 {
			return nil, fmt.Errorf("%w: years_of_experience must not be negative", ErrValidation)
		}
		doctor.YearsOfExperience = *req.YearsOfExperience
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	if err := u.doctorRepo.Update(db, doctor); err != nil {
		u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	after := converter.DoctorToResponse(doctor)
	_ = u.auditService.LogUpdate(ctx, nil, &doctorID, entity.AuditActionDoctorUpdate, "doctor", doctorID.String(), before, after)
	return after, nil
}
