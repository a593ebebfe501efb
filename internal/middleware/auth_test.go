package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipe-share/backend/internal/types"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("invalid token")
	}
	return &types.TokenClaims{UserID: "u1", Username: "ChefAnna"}, nil
}

func whoAmI(c *gin.Context) {
	c.String(http.StatusOK, UserID(c))
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/me", AuthMiddleware(stubValidator{}), whoAmI)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer good", http.StatusOK, "u1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rr.Body.String())
			} else {
				assert.Contains(t, rr.Body.String(), `"error"`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	router := gin.New()
	router.GET("/me", OptionalAuth(stubValidator{}), whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "u1", rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}
