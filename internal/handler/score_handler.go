package handler

import (
	"fmt"
	"strconv"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/middleware"
	"quiz-arena/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ScoreHandler serves the leaderboard, personal history and result maintenance.
type ScoreHandler struct {
	leaderboard service.LeaderboardService
	results     service.ResultService
	recorder    service.ResultRecorder
}

func NewScoreHandler(leaderboard service.LeaderboardService, results service.ResultService, recorder service.ResultRecorder) *ScoreHandler {
	return &ScoreHandler{leaderboard: leaderboard, results: results, recorder: recorder}
}

// Leaderboard returns the top results.
// @Summary Leaderboard
// @Description Highest score first; ties go to the most recent result.
// @Tags scores
// @Produce json
// @Param limit query int false "Number of entries (default 10)"
// @Success 200 {array} domain.LeaderboardEntry
// @Failure 400 {object} middleware.ErrorResponse "Limit above maximum"
// @Router /scores [get]
func (h *ScoreHandler) Leaderboard(c *fiber.Ctx) error {
	n := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return domain.NewInvalidInputError(fmt.Sprintf("limit must be an integer, got %q", raw))
		}
		n = parsed
	}
	entries, err := h.leaderboard.TopResults(c.UserContext(), n)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// MyResults returns the caller's own results, newest first.
// @Summary My results
// @Tags scores
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Maximum number of results"
// @Success 200 {array} dto.ResultResponse
// @Router /scores/me [get]
func (h *ScoreHandler) MyResults(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	limit, _ := c.Locals(middleware.ValidatedLimitKey).(int)
	results, err := h.results.MyResults(c.UserContext(), identity, limit)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// RetryPending retries storing the caller's results that could not be saved earlier.
// @Summary Retry pending results
// @Tags scores
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.RetryPendingResponse
// @Router /scores/retry [post]
func (h *ScoreHandler) RetryPending(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	recorded, remaining, err := h.recorder.RetryPending(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.RetryPendingResponse{Recorded: recorded, Remaining: remaining})
}

// ExportResults downloads every result as a spreadsheet.
// @Summary Export results
// @Tags scores
// @Security ApiKeyAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 403 {object} middleware.ErrorResponse "Administrator role required"
// @Router /scores/export [get]
func (h *ScoreHandler) ExportResults(c *fiber.Ctx) error {
	data, contentType, ext, err := h.results.ExportResults(c.UserContext())
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("results-%s.%s", time.Now().UTC().Format("20060102-150405"), ext)
	logger.Get().Info("Results export served", zap.String("file", filename), zap.Int("bytes", len(data)))

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
