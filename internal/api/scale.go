package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/service"
	"github.com/pageza/recipe-share/backend/internal/types"
)

// ScaleHandler serves ingredient scaling
type ScaleHandler struct {
	scaling service.IScalingService
	auth    middleware.TokenValidator
	limiter *middleware.RateLimiter
	log     *zap.Logger
}

// NewScaleHandler creates a ScaleHandler. limiter may be nil.
func NewScaleHandler(scaling service.IScalingService, auth middleware.TokenValidator, limiter *middleware.RateLimiter, log *zap.Logger) *ScaleHandler {
	return &ScaleHandler{scaling: scaling, auth: auth, limiter: limiter, log: log.Named("scale-handler")}
}

func (h *ScaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{middleware.OptionalAuth(h.auth)}
	if h.limiter != nil {
		handlers = append(handlers, h.limiter.RateLimitMiddleware())
	}
	handlers = append(handlers, h.Scale)
	router.POST("/ingredients/scale", handlers...)
}

func (h *ScaleHandler) Scale(c *gin.Context) {
	var req types.ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, MsgInvalidScale)
		return
	}

	scaled, err := h.scaling.Scale(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrInvalidScaleInput):
		respondError(c, http.StatusBadRequest, MsgInvalidScale)
	case err != nil:
		h.log.Warn("scaling failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, MsgScaleUnavailable)
	default:
		respondData(c, http.StatusOK, scaled)
	}
}
