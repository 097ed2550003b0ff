package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

// SuperuserChecker resolves a verified claim to a superuser subject.
type SuperuserChecker interface {
	RequireSuperuser(ctx context.Context, claim domain.TokenClaim) (*domain.User, error)
}

// RequireAuthenticated ensures AuthMiddleware ran before the handler.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ClaimFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireSuperuser ensures the caller is a superuser in the user store.
func RequireSuperuser(checker SuperuserChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, ok := ClaimFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		user, err := checker.RequireSuperuser(c.UserContext(), claim)
		if err != nil {
			return err
		}
		c.Locals(subjectKey, user)
		return c.Next()
	}
}
