package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"quiz-arena/internal/cache"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/logger"

	"go.uber.org/zap"
)

// PendingResultStore parks results that could not be written to the database.
type PendingResultStore interface {
	Park(ctx context.Context, result *domain.Result) error
	// All returns parked results oldest first.
	All(ctx context.Context) ([]*domain.Result, error)
	Remove(ctx context.Context, ids ...string) error
}

type pendingResult struct {
	ID             string    `json:"id"`
	AccountID      string    `json:"accountId"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	AttemptID      string    `json:"attemptId"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	Score          int       `json:"score"`
	CreatedAt      time.Time `json:"createdAt"`
}

type cachePendingStore struct {
	cache domain.Cache
	ttl   time.Duration
	key   string
}

// NewPendingResultStore keeps parked results in one Redis hash keyed by result id.
func NewPendingResultStore(c domain.Cache, ttl time.Duration) PendingResultStore {
	return &cachePendingStore{cache: c, ttl: ttl, key: cache.PendingResultsKey()}
}

func (s *cachePendingStore) Park(ctx context.Context, r *domain.Result) error {
	raw, err := json.Marshal(pendingResult{
		ID:             r.ID,
		AccountID:      r.AccountID,
		Username:       r.Username,
		Email:          r.Email,
		AttemptID:      r.AttemptID,
		TotalQuestions: r.TotalQuestions,
		CorrectAnswers: r.CorrectAnswers,
		Score:          r.Score,
		CreatedAt:      r.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode pending result: %w", err)
	}
	if err := s.cache.HSet(ctx, s.key, r.ID, string(raw)); err != nil {
		return fmt.Errorf("failed to park result %s: %w", r.ID, err)
	}
	if s.ttl > 0 {
		if err := s.cache.Expire(ctx, s.key, s.ttl); err != nil {
			logger.Get().Warn("Failed to refresh pending results TTL", zap.Error(err))
		}
	}
	return nil
}

func (s *cachePendingStore) All(ctx context.Context) ([]*domain.Result, error) {
	fields, err := s.cache.HGetAll(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending results: %w", err)
	}

	out := make([]*domain.Result, 0, len(fields))
	var corrupt []string
	for id, raw := range fields {
		var p pendingResult
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			logger.Get().Error("Dropping undecodable pending result", zap.String("resultID", id), zap.Error(err))
			corrupt = append(corrupt, id)
			continue
		}
		out = append(out, &domain.Result{
			ID:             p.ID,
			AccountID:      p.AccountID,
			Username:       p.Username,
			Email:          p.Email,
			AttemptID:      p.AttemptID,
			TotalQuestions: p.TotalQuestions,
			CorrectAnswers: p.CorrectAnswers,
			Score:          p.Score,
			CreatedAt:      p.CreatedAt,
		})
	}
	if len(corrupt) > 0 {
		_ = s.cache.HDel(ctx, s.key, corrupt...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *cachePendingStore) Remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.cache.HDel(ctx, s.key, ids...)
}
