package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-share/backend/internal/model"
)

// MockProfileService is a mock implementation of the profile service
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) EnsureProfile(ctx context.Context, userID, username, avatarURL string) (*model.Profile, error) {
	args := m.Called(ctx, userID, username, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}
