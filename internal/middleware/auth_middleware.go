package middleware

import (
	"context"
	"strings"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	IdentityKey         = "identity" // fiber.Ctx locals key holding the domain.AccountIdentity
)

// IdentityValidator resolves an access token to the account it belongs to.
type IdentityValidator interface {
	Validate(ctx context.Context, credential string) (domain.AccountIdentity, error)
}

// Protected requires a valid bearer access token and stores the caller's
// identity in c.Locals(IdentityKey).
func Protected(validator IdentityValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthorizedError("authorization header is missing")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewUnauthorizedError("authorization scheme is not Bearer")
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if token == "" {
			return domain.NewUnauthorizedError("token is empty")
		}

		identity, err := validator.Validate(c.UserContext(), token)
		if err != nil {
			logger.Get().Debug("Rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return err
		}

		c.Locals(IdentityKey, identity)
		return c.Next()
	}
}

// AdminOnly must run after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return domain.NewUnauthorizedError("authentication required")
		}
		if !identity.IsAdmin() {
			logger.Get().Info("Admin route denied",
				zap.String("path", c.Path()),
				zap.String("accountID", identity.AccountID))
			return domain.NewForbiddenError("administrator role required")
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by Protected.
func IdentityFrom(c *fiber.Ctx) (domain.AccountIdentity, bool) {
	identity, ok := c.Locals(IdentityKey).(domain.AccountIdentity)
	if !ok || identity.IsZero() {
		return domain.AccountIdentity{}, false
	}
	return identity, true
}
