package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/repository/models"
	"quiz-arena/internal/util"
)

const resultColumns = `id, account_id, username, email, attempt_id, total_questions, correct_answers, score, created_at`

// leaderboardOrder keeps ties stable: equal scores rank the newest first, then by id.
const leaderboardOrder = `ORDER BY score DESC, created_at DESC, id DESC`

type sqlxResultRepository struct {
	db DBTX
}

// NewSQLXResultRepository returns an append-only domain.ResultRepository.
func NewSQLXResultRepository(db DBTX) domain.ResultRepository {
	return &sqlxResultRepository{db: db}
}

func toDomainResult(m *models.Result) *domain.Result {
	if m == nil {
		return nil
	}
	return &domain.Result{
		ID:             m.ID,
		AccountID:      m.AccountID,
		Username:       m.Username,
		Email:          m.Email,
		AttemptID:      m.AttemptID,
		TotalQuestions: m.TotalQuestions,
		CorrectAnswers: m.CorrectAnswers,
		Score:          m.Score,
		CreatedAt:      m.CreatedAt,
	}
}

func toDomainResults(rows []models.Result) []*domain.Result {
	out := make([]*domain.Result, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainResult(&rows[i]))
	}
	return out
}

// CreateResult inserts r as-is. A duplicate id or attempt id surfaces as CONFLICT.
func (r *sqlxResultRepository) CreateResult(ctx context.Context, res *domain.Result) error {
	if res == nil {
		return fmt.Errorf("cannot create nil result")
	}
	if res.ID == "" {
		res.ID = util.NewULID()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}

	query := `INSERT INTO results (` + resultColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		res.ID, res.AccountID, res.Username, res.Email, res.AttemptID,
		res.TotalQuestions, res.CorrectAnswers, res.Score, res.CreatedAt)
	if err != nil {
		if util.IsUniqueViolation(err) {
			return domain.NewError(domain.CodeConflict, fmt.Sprintf("result %s already recorded", res.ID), err)
		}
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

func (r *sqlxResultRepository) TopResults(ctx context.Context, limit int) ([]*domain.Result, error) {
	var rows []models.Result
	query := `SELECT ` + resultColumns + ` FROM results ` + leaderboardOrder + ` FETCH FIRST :1 ROWS ONLY`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query top results: %w", err)
	}
	return toDomainResults(rows), nil
}

// ListResultsByAccount returns the account's results, newest first.
func (r *sqlxResultRepository) ListResultsByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Result, error) {
	var rows []models.Result
	query := `SELECT ` + resultColumns + ` FROM results WHERE account_id = :1
	ORDER BY created_at DESC, id DESC FETCH FIRST :2 ROWS ONLY`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, accountID, limit); err != nil {
		return nil, fmt.Errorf("failed to list results for account %s: %w", accountID, err)
	}
	return toDomainResults(rows), nil
}

// ListAllResults returns every result in leaderboard order, for export.
func (r *sqlxResultRepository) ListAllResults(ctx context.Context) ([]*domain.Result, error) {
	var rows []models.Result
	query := `SELECT ` + resultColumns + ` FROM results ` + leaderboardOrder
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return toDomainResults(rows), nil
}
