package handler

import (
	"context"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports whether the database and cache answer a ping.
type HealthHandler struct {
	checks map[string]domain.HealthChecker
}

// NewHealthHandler takes named dependencies; nil entries are skipped.
func NewHealthHandler(checks map[string]domain.HealthChecker) *HealthHandler {
	filtered := make(map[string]domain.HealthChecker, len(checks))
	for name, chk := range checks {
		if chk != nil {
			filtered[name] = chk
		}
	}
	return &HealthHandler{checks: filtered}
}

// HealthCheck reports service health.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "OK", Message: "Server is running", Checks: map[string]string{}}
	for name, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = "down"
			resp.Status = "DEGRADED"
			resp.Message = "One or more dependencies are unavailable"
			continue
		}
		resp.Checks[name] = "up"
	}

	if resp.Status != "OK" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
