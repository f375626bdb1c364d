package handler

import (
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	accountService service.AccountService
}

func NewUserHandler(accountService service.AccountService) *UserHandler {
	return &UserHandler{accountService: accountService}
}

// GetProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "Account not found"
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	profile, err := h.accountService.GetProfile(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// UpdateProfile changes username, email or password.
// @Summary Update My Profile
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserProfileResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid input"
// @Failure 409 {object} middleware.ErrorResponse "Username or email taken"
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, err := h.accountService.UpdateProfile(c.UserContext(), identity, req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// DeleteProfile removes the caller's account. Recorded results stay on the leaderboard.
// @Summary Delete My Account
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse "Account not found"
// @Router /users/profile [delete]
func (h *UserHandler) DeleteProfile(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.accountService.DeleteAccount(c.UserContext(), identity); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "account deleted"})
}

// ListUsers pages through all accounts.
// @Summary List accounts
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} dto.UserListResponse
// @Failure 403 {object} middleware.ErrorResponse "Administrator role required"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page := parsePagination(c)
	resp, err := h.accountService.ListAccounts(c.UserContext(), page)
	if err != nil {
		return err
	}
	logger.Get().Debug("Accounts listed", zap.Int("count", len(resp.Users)), zap.Int64("total", resp.PaginationInfo.TotalItems))
	return c.JSON(resp)
}
