package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/it-tms/tms-service/internal/domain"
	apperrors "github.com/it-tms/tms-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// UserResolver maps a validated token subject to a persisted user.
type UserResolver interface {
	ResolveUser(ctx context.Context, id int64) (*domain.User, error)
}

// Middleware validates bearer tokens and loads principals. Every failure
// is surfaced as the same generic unauthorized response; which check
// failed is only logged.
type Middleware struct {
	tokens   *TokenManager
	resolver UserResolver
	logger   *zap.Logger
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, resolver UserResolver, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, resolver: resolver, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return m.reject(c, errors.New("missing authorization header"))
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return m.reject(c, errors.New("invalid authorization header"))
	}

	userID, err := m.tokens.Validate(parts[1])
	if err != nil {
		return m.reject(c, err)
	}

	user, err := m.resolver.ResolveUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m.reject(c, ErrUnknownSubject)
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

func (m *Middleware) reject(c *fiber.Ctx, reason error) error {
	m.logger.Info("request rejected",
		zap.String("path", c.Path()),
		zap.NamedError("reason", reason))
	return apperrors.NewUnauthorized("unauthorized")
}

// PrincipalFromContext retrieves the authenticated user.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
