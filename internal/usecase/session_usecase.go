package usecase

import (
	"context"
	"errors"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/repository"
	"medibook/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrRevocationUnavailable = errors.New("token revocation is not available")
)

// SessionUsecase covers the caller's own identity. Tokens are issued elsewhere; this
// side only reads the profile and revokes tokens before they expire.
type SessionUsecase interface {
	Me(ctx context.Context, userID uuid.UUID) (*dto.ProfileSummary, error)
	Logout(ctx context.Context, tokenID string) error
}

type sessionUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	profileRepo repository.ProfileRepository
	redisClient *redis.Client
	jwtService  *jwt.JWTService
}

func NewSessionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	profileRepo repository.ProfileRepository,
	redisClient *redis.Client,
	jwtService *jwt.JWTService,
) SessionUsecase {
	return &sessionUsecase{
		db:          db,
		log:         log,
		profileRepo: profileRepo,
		redisClient: redisClient,
		jwtService:  jwtService,
	}
}

func (u *sessionUsecase) Me(ctx context.Context, userID uuid.UUID) (*dto.ProfileSummary, error) {
	profile, err := u.profileRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find profile %s: %+v", userID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return converter.ProfileToSummary(profile), nil
}

// Logout marks the token id revoked for the access token lifetime.
func (u *sessionUsecase) Logout(ctx context.Context, tokenID string) error {
	if u.redisClient == nil || tokenID == "" {
		return ErrRevocationUnavailable
	}
	if err := u.redisClient.Set(ctx, jwt.RevokedTokenKey(tokenID), "revoked", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to revoke token %s: %+v", tokenID, err)
		return err
	}
	return nil
}
