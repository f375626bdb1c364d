package handler

import (
	"quiz-arena/internal/dto"
	"quiz-arena/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	accountService service.AccountService
	authService    service.AuthService
}

func NewAuthHandler(accountService service.AccountService, authService service.AuthService) *AuthHandler {
	return &AuthHandler{accountService: accountService, authService: authService}
}

// Register creates an account and logs it in.
// @Summary Register
// @Description Creates a participant account and returns a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid input"
// @Failure 409 {object} middleware.ErrorResponse "Username or email taken"
// @Router /users/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.accountService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login exchanges credentials for tokens.
// @Summary Login
// @Description Authenticates with an email or username and a password.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Missing fields"
// @Failure 401 {object} middleware.ErrorResponse "Authentication failed"
// @Failure 429 {object} middleware.ErrorResponse "Too many attempts"
// @Router /users/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.accountService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// RefreshToken issues a new token pair from a refresh token.
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tokens, err := h.authService.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}
