// @title Quiz Arena API
// @version 1.0
// @description Timed multiple-choice quiz attempts, results and leaderboard.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-arena/cmd/api/docs"
	"quiz-arena/internal/adapter"
	"quiz-arena/internal/adapter/export"
	"quiz-arena/internal/cache"
	"quiz-arena/internal/config"
	"quiz-arena/internal/database"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/handler"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/middleware"
	"quiz-arena/internal/repository"
	"quiz-arena/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

// requestLogger logs every HTTP request with its latency and a request id.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDHeader, requestID)

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

func loginLimiter(cfg config.AuthConfig) fiber.Handler {
	if cfg.LoginRateLimit <= 0 {
		return nil
	}
	return limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: cfg.LoginRateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			logger.Get().Warn("Login rate limit reached", zap.String("ip", c.IP()), zap.String("path", c.Path()))
			return fiber.NewError(fiber.StatusTooManyRequests, "too many attempts, try again later")
		},
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	questionRepo := repository.NewSQLXQuestionRepository(db)
	accountRepo := repository.NewSQLXAccountRepository(db)
	resultRepo := repository.NewSQLXResultRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("Successfully connected to Redis")

	emailService, err := service.NewEmailService(cfg.Email)
	if err != nil {
		appLogger.Fatal("Failed to create EmailService", zap.Error(err))
	}
	authService, err := service.NewAuthService(accountRepo, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	accountService := service.NewAccountService(accountRepo, txManager, authService, emailService)
	questionService := service.NewQuestionService(questionRepo, cfg.Quiz)
	leaderboardService := service.NewLeaderboardService(resultRepo, cacheAdapter, cfg.Leaderboard)
	pendingStore := service.NewPendingResultStore(cacheAdapter, cfg.Recorder.PendingTTL)
	recorder := service.NewResultRecorder(resultRepo, pendingStore, leaderboardService, accountRepo, cfg.Recorder)
	resultService := service.NewResultService(resultRepo, export.NewXLSXResultExporter(), cfg.Leaderboard)
	attemptService := service.NewAttemptService(questionService, recorder, accountRepo, cacheAdapter, cfg.Quiz)
	appLogger.Info("Services initialized")

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go recorder.RunSweeper(sweepCtx)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization," + requestIDHeader,
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app.Group("/api"), handler.Handlers{
		Auth:     handler.NewAuthHandler(accountService, authService),
		User:     handler.NewUserHandler(accountService),
		Question: handler.NewQuestionHandler(questionService),
		Attempt:  handler.NewAttemptHandler(attemptService),
		Score:    handler.NewScoreHandler(leaderboardService, resultService, recorder),
		Health: handler.NewHealthHandler(map[string]domain.HealthChecker{
			"database": database.NewHealthChecker(db),
			"redis":    cacheAdapter.(domain.HealthChecker),
		}),
	}, handler.RouteOptions{
		Validator:    authService,
		LoginLimiter: loginLimiter(cfg.Auth),
		HistoryLimit: cfg.Leaderboard.HistoryLimit,
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	// Attempts still running are dropped without a result.
	active := attemptService.ActiveCount()
	attemptService.Shutdown()
	stopSweeper()
	appLogger.Info("Server exited gracefully", zap.Int("abandoned_attempts", active))
}
