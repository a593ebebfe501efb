package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/repository"
)

// ProfileService handles user profile operations
type ProfileService struct {
	profiles repository.ProfileRepository
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

// EnsureProfile returns the profile of userID, creating it on first sign-in.
// An existing profile is returned unchanged.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID, username, avatarURL string) (*model.Profile, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	p, err := s.profiles.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = model.AnonymousChef
	}
	if err := s.profiles.CreateProfile(ctx, &model.Profile{
		ID:        userID,
		Username:  username,
		AvatarURL: avatarURL,
	}); err != nil {
		return nil, err
	}
	return s.profiles.GetProfile(ctx, userID)
}
