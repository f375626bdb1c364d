package handler

import (
	"strconv"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// currentIdentity returns the caller resolved by middleware.Protected.
func currentIdentity(c *fiber.Ctx) (domain.AccountIdentity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.AccountIdentity{}, domain.NewUnauthorizedError("authentication required")
	}
	return identity, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	return nil
}

// parsePagination reads ?limit=&page=&offset=; the service applies defaults.
func parsePagination(c *fiber.Ctx) dto.Pagination {
	limit, _ := strconv.Atoi(c.Query("limit"))
	page, _ := strconv.Atoi(c.Query("page"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return dto.Pagination{Limit: limit, Offset: offset, Page: page}
}
