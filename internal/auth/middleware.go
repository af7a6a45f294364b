package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// SessionMiddleware validates the session cookie and loads the principal.
// Only the auth surface is cookie-guarded; work-item endpoints take actor
// ids in the request body.
type SessionMiddleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	sessions   SessionRevoker
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, users repository.UserRepository, sessions SessionRevoker, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, users: users, sessions: sessions, cookieName: cookieName}
}

// Handle enforces authentication for cookie-protected routes.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	tokenStr := c.Cookies(m.cookieName)
	if tokenStr == "" {
		return apperrors.NewUnauthorized("missing session cookie")
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.sessions != nil {
		revoked, err := m.sessions.IsRevoked(c.UserContext(), claims.RegisteredClaims.ID)
		if err == nil && revoked {
			return apperrors.NewUnauthorized("session revoked")
		}
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
