package types

import (
	"github.com/pageza/recipe-share/backend/internal/model"
)

// ScaleRequest represents the request body for scaling a recipe's ingredients
type ScaleRequest struct {
	Ingredients      []model.Ingredient `json:"ingredients"`
	OriginalServings float64            `json:"originalServings"`
	TargetServings   float64            `json:"targetServings"`
}

// RegisterRequest represents the request body for email/password registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"omitempty,min=2,max=100"`
}

// LoginRequest represents the request body for email/password sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// FederatedRequest carries an ID token issued by an external identity provider
type FederatedRequest struct {
	Provider string `json:"provider" binding:"required"`
	IDToken  string `json:"id_token" binding:"required"`
}

// AuthResponse is returned by every sign-in endpoint
type AuthResponse struct {
	Token   string         `json:"token"`
	Profile *model.Profile `json:"profile"`
}

// ImageUpload is an image attached to a recipe submission
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
