package middleware

import (
	"strconv"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedIDKey    = "validated_id"
	ValidatedLimitKey = "validated_limit"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateIDParam checks that the named path parameter is a ULID.
func (vm *ValidationMiddleware) ValidateIDParam(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(param)
		if errs := vm.validator.ValidateID(param, id); len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedIDKey, id)
		return c.Next()
	}
}

// ValidateLimitQuery parses ?limit= into an int in [0, max]; absent means 0.
func (vm *ValidationMiddleware) ValidateLimitQuery(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return domain.ValidationErrors{domain.NewInvalidFormatError("limit", raw)}
			}
			limit = parsed
		}
		if errs := vm.validator.ValidateLimit(limit, max); len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedLimitKey, limit)
		return c.Next()
	}
}
