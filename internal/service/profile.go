package service

import (
	"context"

	apperrors "github.com/budgetwise/budgetwise-go/internal/errors"
	"github.com/budgetwise/budgetwise-go/internal/model"
	"github.com/budgetwise/budgetwise-go/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if profile == nil {
		return nil, apperrors.NotFound("Profile")
	}
	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, params model.UpdateProfileParams) (*model.Profile, error) {
	profile, err := s.profileRepo.Upsert(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if profile == nil {
		return nil, apperrors.NotFound("Profile")
	}
	return profile, nil
}
