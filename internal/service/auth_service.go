package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/it-tms/tms-service/internal/auth"
	"github.com/it-tms/tms-service/internal/config"
	"github.com/it-tms/tms-service/internal/domain"
	"github.com/it-tms/tms-service/internal/repository"
	apperrors "github.com/it-tms/tms-service/pkg/util"
)

// TokenTypeBearer is the token_type string returned on login.
const TokenTypeBearer = "bearer"

// LoginResult carries the issued session token.
type LoginResult struct {
	User      *domain.User
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// AuthService coordinates signup and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Signup creates a new account. A duplicate email or username is reported
// as a conflict; signup is not treated as an enumeration-sensitive path.
func (s *AuthService) Signup(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already taken", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email and password and issues a bearer token.
// Unknown email and wrong password produce the same failure, so the
// response never confirms whether an account exists. A corrupt stored
// hash is logged server-side and surfaced the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, s.invalidCredentials(email, "unknown email")
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, s.invalidCredentials(email, "password mismatch")
	}

	token, expiresAt, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		User:      user,
		Token:     token,
		TokenType: TokenTypeBearer,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) invalidCredentials(email, reason string) error {
	s.logger.Info("login failed",
		zap.String("email", email),
		zap.String("reason", reason))
	return apperrors.NewUnauthorized("invalid credentials")
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
