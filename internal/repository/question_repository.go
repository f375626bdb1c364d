package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/repository/models"
	"quiz-arena/internal/util"
)

const questionColumns = `id, question_text, option_a, option_b, option_c, option_d, correct_option, created_at, updated_at`

type sqlxQuestionRepository struct {
	db DBTX
}

// NewSQLXQuestionRepository returns a domain.QuestionRepository backed by the QUESTIONS table.
func NewSQLXQuestionRepository(db DBTX) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:            m.ID,
		Text:          m.QuestionText,
		Options:       [domain.OptionCount]string{m.OptionA, m.OptionB, m.OptionC, m.OptionD},
		CorrectOption: m.CorrectOption,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	return &models.Question{
		ID:            q.ID,
		QuestionText:  q.Text,
		OptionA:       q.Options[0],
		OptionB:       q.Options[1],
		OptionC:       q.Options[2],
		OptionD:       q.Options[3],
		CorrectOption: q.CorrectOption,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

// ListQuestions returns the bank in creation order.
func (r *sqlxQuestionRepository) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY created_at ASC, id ASC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	out := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainQuestion(&rows[i]))
	}
	return out, nil
}

// GetQuestionByID returns (nil, nil) when no row matches.
func (r *sqlxQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	var row models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question %s: %w", id, err)
	}
	return toDomainQuestion(&row), nil
}

// FindQuestionByText is used by the seeder to skip questions it already inserted.
func (r *sqlxQuestionRepository) FindQuestionByText(ctx context.Context, text string) (*domain.Question, error) {
	var row models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE question_text = :1 FETCH FIRST 1 ROWS ONLY`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find question by text: %w", err)
	}
	return toDomainQuestion(&row), nil
}

// CreateQuestion assigns an ID and timestamps when unset and writes them back to q.
func (r *sqlxQuestionRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	if q == nil {
		return fmt.Errorf("cannot create nil question")
	}
	if q.ID == "" {
		q.ID = util.NewULID()
	}
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now

	m := fromDomainQuestion(q)
	query := `INSERT INTO questions (` + questionColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.QuestionText, m.OptionA, m.OptionB, m.OptionC, m.OptionD, m.CorrectOption, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// UpdateQuestion returns sql.ErrNoRows if the question does not exist.
func (r *sqlxQuestionRepository) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	if q == nil {
		return fmt.Errorf("cannot update nil question")
	}
	q.UpdatedAt = time.Now()
	m := fromDomainQuestion(q)

	query := `UPDATE questions SET
		question_text = :1, option_a = :2, option_b = :3, option_c = :4, option_d = :5,
		correct_option = :6, updated_at = :7
	WHERE id = :8`
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.QuestionText, m.OptionA, m.OptionB, m.OptionC, m.OptionD, m.CorrectOption, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update question %s: %w", q.ID, err)
	}
	return expectAffected(res)
}

// DeleteQuestion returns sql.ErrNoRows if the question does not exist.
func (r *sqlxQuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM questions WHERE id = :1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question %s: %w", id, err)
	}
	return expectAffected(res)
}

func (r *sqlxQuestionRepository) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &n, `SELECT COUNT(*) FROM questions`); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
