package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/api"
	"github.com/pageza/recipe-share/backend/internal/middleware"
)

// Handlers groups the API handlers mounted by SetupRouter
type Handlers struct {
	Health  *api.HealthHandler
	Recipes *api.RecipeHandler
	Scale   *api.ScaleHandler
	Auth    *api.AuthHandler
	Profile *api.ProfileHandler
}

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, h Handlers, log *zap.Logger) *gin.Engine {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(log.Named("http")))
	router.Use(middleware.Recover(log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// multipart bodies beyond this spill to temp files
	if cfg.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadBytes + 1<<20
	}

	if h.Health != nil {
		h.Health.RegisterRoutes(router)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	if h.Auth != nil {
		h.Auth.RegisterRoutes(v1)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(v1)
	}
	if h.Recipes != nil {
		h.Recipes.RegisterRoutes(v1)
	}
	if h.Scale != nil {
		h.Scale.RegisterRoutes(v1)
	}

	return router
}
