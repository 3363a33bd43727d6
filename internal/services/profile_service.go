package services

import (
	"context"

	"github.com/coachwave/backend/internal/models"
	"github.com/coachwave/backend/internal/repository"
)

type ProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

type ProfileUpdater interface {
	UpdatePartial(ctx context.Context, userID int64, input repository.UpdateProfileInput) (*models.Profile, error)
	UpdateRole(ctx context.Context, userID int64, role string) (*models.Profile, error)
}

type ProfileService struct {
	reader  ProfileReader
	updater ProfileUpdater
}

func NewProfileService(reader ProfileReader, updater ProfileUpdater) *ProfileService {
	return &ProfileService{reader: reader, updater: updater}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.reader.GetByUserID(ctx, userID)
}

func (s *ProfileService) UpdateProfile(
	ctx context.Context,
	userID int64,
	input repository.UpdateProfileInput,
) (*models.Profile, error) {
	return s.updater.UpdatePartial(ctx, userID, input)
}

// ChangeRole is the administrative role update; the handler restricts it to
// admins.
func (s *ProfileService) ChangeRole(ctx context.Context, userID int64, role models.Role) (*models.Profile, error) {
	if !role.Valid() {
		return nil, ErrInvalidInput
	}
	return s.updater.UpdateRole(ctx, userID, string(role))
}
