package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/service"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService service.IProfileService
	authService    middleware.TokenValidator
	log            *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService service.IProfileService, authService middleware.TokenValidator, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
		log:            log.Named("profile-handler"),
	}
}

// RegisterRoutes registers the profile routes
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", middleware.AuthMiddleware(h.authService), h.GetProfile)
}

// GetProfile returns the caller's profile, creating it on first access
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := middleware.UserID(c)
	profile, err := h.profileService.EnsureProfile(c.Request.Context(), userID, c.GetString(middleware.ContextUsername), "")
	if err != nil {
		h.log.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to load profile.")
		return
	}
	respondData(c, http.StatusOK, profile)
}
