package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a session token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
