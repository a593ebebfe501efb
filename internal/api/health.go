package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	store Pinger
	log   *zap.Logger
}

func NewHealthHandler(store Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, log: log.Named("health")}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.HealthCheck)
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("store ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"store":  "unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"store":  "ok",
	})
}
