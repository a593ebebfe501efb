package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/recipe-share/backend/internal/mocks"
	"github.com/pageza/recipe-share/backend/internal/model"
)

func TestGetProfile(t *testing.T) {
	profiles := &mocks.MockProfileService{}
	profiles.On("EnsureProfile", mock.Anything, "u1", "ChefAnna", "").Return(&model.Profile{ID: "u1", Username: "ChefAnna"}, nil)
	auth := newAuthMock()
	auth.On("ValidateToken", "bad").Return(nil, errors.New("invalid token"))

	router := gin.New()
	NewProfileHandler(profiles, auth, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/api/v1"))

	rr := serve(router, withToken(httpGet("/api/v1/profile")))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"id":"u1","username":"ChefAnna"}}`, rr.Body.String())

	rr = serve(router, httpGet("/api/v1/profile"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httpGet("/api/v1/profile")
	req.Header.Set("Authorization", "Bearer bad")
	rr = serve(router, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	profiles.AssertExpectations(t)
}
