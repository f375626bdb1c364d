package domain

import (
	"context"
	"fmt"
	"time"

	"quiz-arena/internal/util"
)

// Result is the immutable, scored outcome of a finished attempt.
type Result struct {
	ID             string
	AccountID      string
	Username       string
	Email          string
	AttemptID      string
	TotalQuestions int
	CorrectAnswers int
	Score          int
	CreatedAt      time.Time
}

// ComputeScore returns round(100 * correct / total); zero when total is zero.
func ComputeScore(correct, total int) int {
	return util.RoundPercent(correct, total)
}

// Validate checks the result invariants before it is recorded.
func (r *Result) Validate() error {
	if r.TotalQuestions < 0 {
		return NewValidationFailedError(fmt.Sprintf("totalQuestions must not be negative, got %d", r.TotalQuestions))
	}
	if r.CorrectAnswers < 0 {
		return NewValidationFailedError(fmt.Sprintf("correctAnswers must not be negative, got %d", r.CorrectAnswers))
	}
	if r.CorrectAnswers > r.TotalQuestions {
		return NewValidationFailedError(fmt.Sprintf("correctAnswers (%d) exceeds totalQuestions (%d)", r.CorrectAnswers, r.TotalQuestions))
	}
	if expected := ComputeScore(r.CorrectAnswers, r.TotalQuestions); r.Score != expected {
		return NewValidationFailedError(fmt.Sprintf("score %d does not match %d/%d (expected %d)", r.Score, r.CorrectAnswers, r.TotalQuestions, expected))
	}
	return nil
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	Username       string    `json:"username"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// ResultRepository defines the interface for result persistence. Results are append-only.
type ResultRepository interface {
	CreateResult(ctx context.Context, result *Result) error
	// TopResults orders by score desc, then most recent first.
	TopResults(ctx context.Context, limit int) ([]*Result, error)
	ListResultsByAccount(ctx context.Context, accountID string, limit int) ([]*Result, error)
	ListAllResults(ctx context.Context) ([]*Result, error)
}

// ResultExporter renders results into a downloadable document.
type ResultExporter interface {
	Export(results []*Result) ([]byte, error)
	ContentType() string
	FileExtension() string
}
