package handler

import (
	"quiz-arena/internal/dto"
	"quiz-arena/internal/service"
	"quiz-arena/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler serves the admin question bank.
type QuestionHandler struct {
	questionService service.QuestionService
	validator       *validation.Validator
}

func NewQuestionHandler(questionService service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, validator: validation.NewValidator()}
}

// ListQuestions returns the whole bank including correct options.
// @Summary List questions
// @Tags questions
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Failure 403 {object} middleware.ErrorResponse "Administrator role required"
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	questions, err := h.questionService.ListQuestions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// GetQuestion returns one question.
// @Summary Get question
// @Tags questions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} middleware.ErrorResponse "Question not found"
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	q, err := h.questionService.GetQuestion(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(q)
}

// CreateQuestion adds a question to the bank.
// @Summary Create question
// @Tags questions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.QuestionMutationResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid question"
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	req, err := h.parseQuestion(c)
	if err != nil {
		return err
	}
	q, err := h.questionService.CreateQuestion(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.QuestionMutationResponse{Message: "Question created", Question: *q})
}

// UpdateQuestion replaces a question's text, options and answer.
// @Summary Update question
// @Tags questions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.QuestionMutationResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid question"
// @Failure 404 {object} middleware.ErrorResponse "Question not found"
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	req, err := h.parseQuestion(c)
	if err != nil {
		return err
	}
	q, err := h.questionService.UpdateQuestion(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuestionMutationResponse{Message: "Question updated", Question: *q})
}

// DeleteQuestion removes a question. Attempts already running keep their snapshot.
// @Summary Delete question
// @Tags questions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse "Question not found"
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.questionService.DeleteQuestion(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Question deleted"})
}

func (h *QuestionHandler) parseQuestion(c *fiber.Ctx) (dto.QuestionRequest, error) {
	var req dto.QuestionRequest
	if err := parseBody(c, &req); err != nil {
		return req, err
	}
	if errs := h.validator.ValidateQuestionRequest(req); len(errs) > 0 {
		return req, errs
	}
	return req, nil
}
