package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

const (
	claimKey   = "auth_claim"
	subjectKey = "auth_subject"
)

// AuthMiddleware validates bearer access tokens.
type AuthMiddleware struct {
	tokens *TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := BearerToken(c)
	if err != nil {
		return err
	}

	claim, err := m.tokens.VerifyAccess(token)
	if err != nil {
		return err
	}

	c.Locals(claimKey, claim)
	return c.Next()
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// ClaimFromContext retrieves the verified access claim.
func ClaimFromContext(c *fiber.Ctx) (domain.TokenClaim, bool) {
	claim, ok := c.Locals(claimKey).(domain.TokenClaim)
	return claim, ok
}

// SubjectFromContext retrieves the subject loaded by RequireSuperuser.
func SubjectFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(subjectKey).(*domain.User)
	return user, ok && user != nil
}
