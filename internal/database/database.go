package database

import (
	"context"
	"fmt"
	"time"

	"quiz-arena/internal/config"
	"quiz-arena/internal/logger"

	_ "github.com/godror/godror" // registers "godror"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// DriverName resolves the configured driver, defaulting to the pure-Go go-ora driver.
func DriverName(cfg config.DBConfig) string {
	if cfg.Driver == config.DriverGodror {
		return config.DriverGodror
	}
	return config.DriverGoOra
}

// NewSQLXDB opens the Oracle pool described by cfg and verifies it with a ping.
func NewSQLXDB(cfg *config.Config) (*sqlx.DB, error) {
	driver := DriverName(cfg.DB)
	db, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	logger.Get().Info("Connected to database",
		zap.String("driver", driver),
		zap.String("host", cfg.DB.Host),
		zap.Int("port", cfg.DB.Port),
		zap.String("service", cfg.DB.DBName))
	return db, nil
}

// HealthChecker reports database reachability on /api/health.
type HealthChecker struct {
	db *sqlx.DB
}

func NewHealthChecker(db *sqlx.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
