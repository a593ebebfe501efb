package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/internal/service"
	"github.com/pageza/recipe-share/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
	log         *zap.Logger
}

func NewAuthHandler(authService service.IAuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log.Named("auth-handler")}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/federated", h.Federated)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "A valid email and a password of at least 6 characters are required.")
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Username)
	if errors.Is(err, service.ErrUserExists) {
		respondError(c, http.StatusConflict, "An account with this email already exists.")
		return
	}
	if err != nil {
		h.log.Error("registration failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Registration failed.")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondError(c, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if err != nil {
		h.log.Error("login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Login failed.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Federated(c *gin.Context) {
	var req types.FederatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Provider and id_token are required.")
		return
	}

	resp, err := h.authService.FederatedSignIn(c.Request.Context(), req.Provider, req.IDToken)
	switch {
	case errors.Is(err, service.ErrUnknownProvider):
		respondError(c, http.StatusBadRequest, "Unsupported sign-in provider.")
	case errors.Is(err, service.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, "Sign-in token is invalid or expired.")
	case err != nil:
		h.log.Error("federated sign-in failed", zap.String("provider", req.Provider), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Sign-in failed.")
	default:
		c.JSON(http.StatusOK, resp)
	}
}
