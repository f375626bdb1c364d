package service

import (
	"context"
	"sync/atomic"
	"time"

	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ResultRecorder persists finished-attempt results.
type ResultRecorder interface {
	// Record stamps the owner's current username and email and stores the result.
	// A deleted owner is UNAUTHORIZED and nothing is stored. On
	// PERSISTENCE_FAILED the returned result is still valid and has been parked for retry.
	Record(ctx context.Context, identity domain.AccountIdentity, result *domain.Result) (*domain.Result, error)
	// RetryPending retries the caller's parked results and reports how many were stored and how many remain.
	RetryPending(ctx context.Context, identity domain.AccountIdentity) (recorded int, remaining int, err error)
	// SweepOnce retries every parked result once.
	SweepOnce(ctx context.Context) (int, error)
	// RunSweeper calls SweepOnce on every sweep interval until ctx is done.
	RunSweeper(ctx context.Context)
}

type resultRecorderImpl struct {
	repo        domain.ResultRepository
	pending     PendingResultStore
	leaderboard LeaderboardService
	accounts    domain.AccountRepository
	cfg         config.RecorderConfig
}

func NewResultRecorder(
	repo domain.ResultRepository,
	pending PendingResultStore,
	leaderboard LeaderboardService,
	accounts domain.AccountRepository,
	cfg config.RecorderConfig,
) ResultRecorder {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.SweepConcurrency <= 0 {
		cfg.SweepConcurrency = 1
	}
	return &resultRecorderImpl{repo: repo, pending: pending, leaderboard: leaderboard, accounts: accounts, cfg: cfg}
}

func (s *resultRecorderImpl) Record(ctx context.Context, identity domain.AccountIdentity, result *domain.Result) (*domain.Result, error) {
	appLogger := logger.Get()
	if identity.IsZero() {
		return nil, domain.NewUnauthorizedError("authentication required to record a result")
	}
	if result == nil {
		return nil, domain.NewInvalidInputError("result is required")
	}
	owner, err := liveIdentity(ctx, s.accounts, identity)
	if err != nil {
		if domain.HasCode(err, domain.CodeUnauthorized) {
			return nil, err
		}
		// The insert below is likely to fail as well and park the result under the token's names.
		appLogger.Warn("Owner lookup failed, recording with token identity", zap.String("accountID", identity.AccountID), zap.Error(err))
	} else {
		identity = owner
	}

	r := *result
	r.AccountID = identity.AccountID
	r.Username = identity.Username
	r.Email = identity.Email
	if r.ID == "" {
		r.ID = util.NewULID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		if lastErr = s.insert(ctx, &r); lastErr == nil {
			s.invalidate(ctx)
			appLogger.Info("Result recorded",
				zap.String("resultID", r.ID),
				zap.String("accountID", r.AccountID),
				zap.Int("score", r.Score))
			return &r, nil
		}
		appLogger.Warn("Result insert failed",
			zap.String("resultID", r.ID),
			zap.Int("attempt", attempt),
			zap.Int("maxRetries", s.cfg.MaxRetries),
			zap.Error(lastErr))
		if attempt < s.cfg.MaxRetries {
			if err := sleepCtx(ctx, s.cfg.RetryBackoff*time.Duration(attempt)); err != nil {
				break
			}
		}
	}

	if s.pending != nil {
		if err := s.pending.Park(context.WithoutCancel(ctx), &r); err != nil {
			appLogger.Error("Failed to park result, it is lost", zap.String("resultID", r.ID), zap.Error(err))
		} else {
			appLogger.Info("Result parked for retry", zap.String("resultID", r.ID))
		}
	}
	return &r, domain.NewPersistenceFailedError("result could not be stored and will be retried", lastErr)
}

// insert treats a duplicate key as success: the same result id was already written by an earlier try.
func (s *resultRecorderImpl) insert(ctx context.Context, r *domain.Result) error {
	err := s.repo.CreateResult(ctx, r)
	if err != nil && domain.HasCode(err, domain.CodeConflict) {
		return nil
	}
	return err
}

func (s *resultRecorderImpl) invalidate(ctx context.Context) {
	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}
}

func (s *resultRecorderImpl) RetryPending(ctx context.Context, identity domain.AccountIdentity) (int, int, error) {
	if identity.IsZero() {
		return 0, 0, domain.NewUnauthorizedError("authentication required")
	}
	if s.pending == nil {
		return 0, 0, nil
	}
	all, err := s.pending.All(ctx)
	if err != nil {
		return 0, 0, domain.NewInternalError("failed to read pending results", err)
	}

	recorded, remaining := 0, 0
	for _, r := range all {
		if r.AccountID != identity.AccountID {
			continue
		}
		if err := s.insert(ctx, r); err != nil {
			remaining++
			continue
		}
		if err := s.pending.Remove(ctx, r.ID); err != nil {
			logger.Get().Warn("Failed to clear parked result", zap.String("resultID", r.ID), zap.Error(err))
		}
		recorded++
	}
	if recorded > 0 {
		s.invalidate(ctx)
	}
	return recorded, remaining, nil
}

func (s *resultRecorderImpl) SweepOnce(ctx context.Context) (int, error) {
	if s.pending == nil {
		return 0, nil
	}
	all, err := s.pending.All(ctx)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}

	var stored atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SweepConcurrency)
	for _, r := range all {
		g.Go(func() error {
			if err := s.insert(gctx, r); err != nil {
				return nil
			}
			if err := s.pending.Remove(gctx, r.ID); err != nil {
				logger.Get().Warn("Failed to clear parked result", zap.String("resultID", r.ID), zap.Error(err))
			}
			stored.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	n := int(stored.Load())
	if n > 0 {
		s.invalidate(ctx)
		logger.Get().Info("Pending results swept", zap.Int("stored", n), zap.Int("pending", len(all)-n))
	}
	return n, nil
}

func (s *resultRecorderImpl) RunSweeper(ctx context.Context) {
	interval := s.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				logger.Get().Warn("Pending results sweep failed", zap.Error(err))
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
