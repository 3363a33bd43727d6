package services

import (
	"context"

	"github.com/coachwave/backend/internal/directory"
	"github.com/coachwave/backend/internal/models"
)

type CoachLister interface {
	ListAll(ctx context.Context) ([]models.Coach, error)
	GetByID(ctx context.Context, coachID int64) (*models.Coach, error)
	GetByHandle(ctx context.Context, handle string) (*models.Coach, error)
	ListFAQ(ctx context.Context, coachID int64) ([]models.CoachFAQ, error)
	ListReviews(ctx context.Context, coachID int64) ([]models.CoachReview, error)
}

type DirectoryService struct {
	coachRepo CoachLister
}

func NewDirectoryService(coachRepo CoachLister) *DirectoryService {
	return &DirectoryService{coachRepo: coachRepo}
}

// Search loads the directory and filters it in memory, preserving the stored
// order.
func (s *DirectoryService) Search(
	ctx context.Context,
	query string,
	filters directory.Filters,
) ([]models.Coach, error) {
	coaches, err := s.coachRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return directory.Filter(coaches, query, filters), nil
}

func (s *DirectoryService) Detail(ctx context.Context, coachID int64) (*models.CoachDetail, error) {
	coach, err := s.coachRepo.GetByID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, coach)
}

// DetailByHandle backs the public landing page, which addresses coaches by
// their URL handle.
func (s *DirectoryService) DetailByHandle(ctx context.Context, handle string) (*models.CoachDetail, error) {
	coach, err := s.coachRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, coach)
}

func (s *DirectoryService) buildDetail(ctx context.Context, coach *models.Coach) (*models.CoachDetail, error) {
	faq, err := s.coachRepo.ListFAQ(ctx, coach.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.coachRepo.ListReviews(ctx, coach.ID)
	if err != nil {
		return nil, err
	}
	return &models.CoachDetail{Coach: *coach, FAQ: faq, Reviews: reviews}, nil
}
