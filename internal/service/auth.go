package service

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/repository"
	"github.com/pageza/recipe-share/backend/internal/types"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownProvider    = errors.New("unknown identity provider")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService issues session tokens for local and federated sign-in
type AuthService struct {
	users     repository.UserRepository
	profiles  IProfileService
	jwtSecret []byte
	tokenTTL  time.Duration
	providers map[string]federatedProvider
	log       *zap.Logger
	now       func() time.Time
}

var _ IAuthService = (*AuthService)(nil)

type federatedProvider struct {
	key      *rsa.PublicKey
	audience string
	issuer   string
}

// NewAuthService creates a new AuthService. Every configured federated
// provider needs an audience, an issuer and a key file holding a PEM encoded
// RSA public key.
func NewAuthService(cfg *config.Config, users repository.UserRepository, profiles IProfileService, log *zap.Logger) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is required")
	}

	providers := make(map[string]federatedProvider, len(cfg.FederatedProviders))
	for name, p := range cfg.FederatedProviders {
		if p.Audience == "" || p.Issuer == "" {
			return nil, fmt.Errorf("provider %s needs an audience and an issuer", name)
		}
		pem, err := os.ReadFile(p.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s public key: %w", name, err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s public key: %w", name, err)
		}
		providers[strings.ToLower(name)] = federatedProvider{key: key, audience: p.Audience, issuer: p.Issuer}
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &AuthService{
		users:     users,
		profiles:  profiles,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  ttl,
		providers: providers,
		log:       log.Named("auth"),
		now:       time.Now,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password, username string) (*types.AuthResponse, error) {
	email = normalizeEmail(email)

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if username == "" {
		username = emailName(email)
	}
	s.log.Info("registered user", zap.String("user_id", user.ID))
	return s.signIn(ctx, user.ID, username, "")
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*types.AuthResponse, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Compare password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.signIn(ctx, user.ID, emailName(email), "")
}

// FederatedSignIn verifies an RS256 ID token from provider and signs in its
// subject as "{provider}:{sub}". The token must be issued by the provider's
// issuer for our audience and must expire.
func (s *AuthService) FederatedSignIn(ctx context.Context, provider, idToken string) (*types.AuthResponse, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	p, ok := s.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		return p.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(p.audience),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.log.Warn("rejected federated token", zap.String("provider", provider), zap.Error(err))
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}

	name := stringClaim(claims, "name")
	if name == "" {
		name = emailName(stringClaim(claims, "email"))
	}
	return s.signIn(ctx, provider+":"+sub, name, stringClaim(claims, "picture"))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// signIn ensures the profile exists and issues a session token for it
func (s *AuthService) signIn(ctx context.Context, userID, username, avatarURL string) (*types.AuthResponse, error) {
	profile, err := s.profiles.EnsureProfile(ctx, userID, username, avatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	token, err := s.generateToken(userID, profile.Username)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{Token: token, Profile: profile}, nil
}

func (s *AuthService) generateToken(userID, username string) (string, error) {
	now := s.now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID:   userID,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailName(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

func stringClaim(claims jwt.MapClaims, name string) string {
	v, _ := claims[name].(string)
	return v
}
