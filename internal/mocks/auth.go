package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-share/backend/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, email, password, username string) (*types.AuthResponse, error) {
	args := m.Called(ctx, email, password, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*types.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthResponse), args.Error(1)
}

func (m *MockAuthService) FederatedSignIn(ctx context.Context, provider, idToken string) (*types.AuthResponse, error) {
	args := m.Called(ctx, provider, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthResponse), args.Error(1)
}
