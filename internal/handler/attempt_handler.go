package handler

import (
	"context"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler exposes the timed quiz session of the authenticated participant.
type AttemptHandler struct {
	attemptService service.AttemptService
}

func NewAttemptHandler(attemptService service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// StartAttempt begins a new timed attempt.
// @Summary Start attempt
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Success 201 {object} dto.AttemptResponse
// @Failure 400 {object} middleware.ErrorResponse "Question bank is empty"
// @Failure 409 {object} middleware.ErrorResponse "An attempt is already in progress"
// @Router /attempts [post]
func (h *AttemptHandler) StartAttempt(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	resp, err := h.attemptService.Start(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// CurrentAttempt returns the caller's active or most recently finished attempt.
// @Summary Current attempt
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} middleware.ErrorResponse "No attempt in progress"
// @Router /attempts/current [get]
func (h *AttemptHandler) CurrentAttempt(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	resp, err := h.attemptService.Current(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AbandonAttempt discards the active attempt without recording a result.
// @Summary Abandon attempt
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse "No attempt in progress"
// @Failure 409 {object} middleware.ErrorResponse "Attempt already finished"
// @Router /attempts/current [delete]
func (h *AttemptHandler) AbandonAttempt(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.attemptService.Abandon(c.UserContext(), identity); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "attempt abandoned"})
}

// GetAttempt returns an attempt owned by the caller.
// @Summary Get attempt
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} middleware.ErrorResponse "Attempt not found"
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	resp, err := h.attemptService.Get(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SelectOption records an answer for the current question.
// @Summary Select option
// @Tags attempts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param request body dto.SelectOptionRequest true "Option index 0-3"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} middleware.ErrorResponse "Option out of range"
// @Failure 409 {object} middleware.ErrorResponse "Attempt already finished"
// @Router /attempts/{id}/select [post]
func (h *AttemptHandler) SelectOption(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.SelectOptionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Option == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("option")}
	}
	resp, err := h.attemptService.Select(c.UserContext(), identity, c.Params("id"), *req.Option)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Advance moves to the next question.
// @Summary Next question
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Router /attempts/{id}/advance [post]
func (h *AttemptHandler) Advance(c *fiber.Ctx) error {
	return h.navigate(c, h.attemptService.Advance)
}

// Retreat moves to the previous question.
// @Summary Previous question
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Router /attempts/{id}/retreat [post]
func (h *AttemptHandler) Retreat(c *fiber.Ctx) error {
	return h.navigate(c, h.attemptService.Retreat)
}

// GoTo jumps to a question by index.
// @Summary Jump to question
// @Tags attempts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param request body dto.GoToRequest true "Zero-based position"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} middleware.ErrorResponse "Position out of range"
// @Router /attempts/{id}/goto [post]
func (h *AttemptHandler) GoTo(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.GoToRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Position == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("position")}
	}
	resp, err := h.attemptService.GoTo(c.UserContext(), identity, c.Params("id"), *req.Position)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// FinishAttempt submits the attempt and records its result.
// @Summary Finish attempt
// @Description The computed result is always returned; persisted=false means it was queued for retry.
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.FinishResponse
// @Failure 404 {object} middleware.ErrorResponse "Attempt not found"
// @Failure 409 {object} middleware.ErrorResponse "Attempt already finished"
// @Router /attempts/{id}/finish [post]
func (h *AttemptHandler) FinishAttempt(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	resp, err := h.attemptService.Finish(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

type navigateFunc func(ctx context.Context, identity domain.AccountIdentity, attemptID string) (*dto.AttemptResponse, error)

func (h *AttemptHandler) navigate(c *fiber.Ctx, op navigateFunc) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	resp, err := op(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
