package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"quiz-arena/internal/cache"
	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LeaderboardService answers top-n queries over recorded results.
type LeaderboardService interface {
	// TopResults uses the configured default when n <= 0 and rejects n above the maximum.
	TopResults(ctx context.Context, n int) ([]domain.LeaderboardEntry, error)
	// Invalidate drops the cached snapshot; called after every stored result.
	Invalidate(ctx context.Context)
}

type leaderboardServiceImpl struct {
	repo  domain.ResultRepository
	cache domain.Cache // nil or a non-positive CacheTTL disables caching
	cfg   config.LeaderboardConfig
	sf    singleflight.Group
	// gen is bumped by Invalidate; a fill only keeps its snapshot if gen did not move during the query.
	gen atomic.Uint64
}

func NewLeaderboardService(repo domain.ResultRepository, cache domain.Cache, cfg config.LeaderboardConfig) LeaderboardService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	return &leaderboardServiceImpl{repo: repo, cache: cache, cfg: cfg}
}

func (s *leaderboardServiceImpl) TopResults(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if n <= 0 {
		n = s.cfg.DefaultLimit
	}
	if n > s.cfg.MaxLimit {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("n must be at most %d, got %d", s.cfg.MaxLimit, n))
	}

	entries, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// snapshot returns the top MaxLimit entries, from cache when possible.
func (s *leaderboardServiceImpl) snapshot(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	key := cache.LeaderboardKey(s.cfg.MaxLimit)
	if entries, ok := s.fromCache(ctx, key); ok {
		return entries, nil
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if entries, ok := s.fromCache(ctx, key); ok {
			return entries, nil
		}

		gen := s.gen.Load()
		results, err := s.repo.TopResults(ctx, s.cfg.MaxLimit)
		if err != nil {
			return nil, domain.NewInternalError("failed to query leaderboard", err)
		}
		entries := toLeaderboardEntries(results)
		s.store(ctx, key, gen, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	// Copy so callers can't alias a slice shared by concurrent singleflight waiters.
	shared := v.([]domain.LeaderboardEntry)
	return append(make([]domain.LeaderboardEntry, 0, len(shared)), shared...), nil
}

func (s *leaderboardServiceImpl) cacheEnabled() bool {
	return s.cache != nil && s.cfg.CacheTTL > 0
}

func (s *leaderboardServiceImpl) fromCache(ctx context.Context, key string) ([]domain.LeaderboardEntry, bool) {
	if !s.cacheEnabled() {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Leaderboard cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Get().Warn("Discarding corrupt leaderboard snapshot", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return entries, true
}

// store writes the snapshot read at generation gen. A snapshot that an
// Invalidate overtook, before or during the write, is dropped again.
func (s *leaderboardServiceImpl) store(ctx context.Context, key string, gen uint64, entries []domain.LeaderboardEntry) {
	if !s.cacheEnabled() || s.gen.Load() != gen {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttlWithJitter()); err != nil {
		logger.Get().Warn("Leaderboard cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if s.gen.Load() != gen {
		s.drop(ctx, key)
	}
}

func (s *leaderboardServiceImpl) ttlWithJitter() time.Duration {
	jitterMax := int64(s.cfg.CacheTTL) / 10
	return s.cfg.CacheTTL + time.Duration(rand.Int64N(jitterMax+1))
}

func (s *leaderboardServiceImpl) Invalidate(ctx context.Context) {
	s.gen.Add(1)
	key := cache.LeaderboardKey(s.cfg.MaxLimit)
	s.sf.Forget(key)
	if s.cache == nil {
		return
	}
	s.drop(ctx, key)
}

func (s *leaderboardServiceImpl) drop(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("Leaderboard cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func toLeaderboardEntries(results []*domain.Result) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(results))
	for i, r := range results {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:           i + 1,
			Username:       r.Username,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			CorrectAnswers: r.CorrectAnswers,
			SubmittedAt:    r.CreatedAt,
		})
	}
	return entries
}
