package handler

import (
	"quiz-arena/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler mounted under /api.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Question *QuestionHandler
	Attempt  *AttemptHandler
	Score    *ScoreHandler
	Health   *HealthHandler
}

// RouteOptions carries the cross-cutting pieces the routes depend on.
type RouteOptions struct {
	Validator    middleware.IdentityValidator
	LoginLimiter fiber.Handler // nil disables rate limiting
	HistoryLimit int
}

// RegisterRoutes mounts the API on router (usually app.Group("/api")).
func RegisterRoutes(router fiber.Router, h Handlers, opts RouteOptions) {
	protected := middleware.Protected(opts.Validator)
	adminOnly := middleware.AdminOnly()
	vm := middleware.NewValidationMiddleware()
	limited := opts.LoginLimiter
	if limited == nil {
		limited = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Get("/health", h.Health.HealthCheck)

	router.Post("/users/register", limited, h.Auth.Register)
	router.Post("/users/login", limited, h.Auth.Login)
	router.Post("/auth/refresh", h.Auth.RefreshToken)

	// Per-route guards: a group middleware on /users would also cover register and login.
	router.Get("/users/profile", protected, h.User.GetProfile)
	router.Put("/users/profile", protected, h.User.UpdateProfile)
	router.Delete("/users/profile", protected, h.User.DeleteProfile)
	router.Get("/users", protected, adminOnly, h.User.ListUsers)

	questions := router.Group("/questions", protected, adminOnly)
	questions.Get("/", h.Question.ListQuestions)
	questions.Post("/", h.Question.CreateQuestion)
	questions.Get("/:id", vm.ValidateIDParam("id"), h.Question.GetQuestion)
	questions.Put("/:id", vm.ValidateIDParam("id"), h.Question.UpdateQuestion)
	questions.Delete("/:id", vm.ValidateIDParam("id"), h.Question.DeleteQuestion)

	attempts := router.Group("/attempts", protected)
	attempts.Post("/", h.Attempt.StartAttempt)
	attempts.Get("/current", h.Attempt.CurrentAttempt)
	attempts.Delete("/current", h.Attempt.AbandonAttempt)
	attempts.Get("/:id", h.Attempt.GetAttempt)
	attempts.Post("/:id/select", h.Attempt.SelectOption)
	attempts.Post("/:id/advance", h.Attempt.Advance)
	attempts.Post("/:id/retreat", h.Attempt.Retreat)
	attempts.Post("/:id/goto", h.Attempt.GoTo)
	attempts.Post("/:id/finish", h.Attempt.FinishAttempt)

	router.Get("/scores", h.Score.Leaderboard)
	router.Get("/scores/me", protected, vm.ValidateLimitQuery(opts.HistoryLimit), h.Score.MyResults)
	router.Post("/scores/retry", protected, h.Score.RetryPending)
	router.Get("/scores/export", protected, adminOnly, h.Score.ExportResults)
}
