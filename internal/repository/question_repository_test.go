package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questionRowColumns = []string{"ID", "QUESTION_TEXT", "OPTION_A", "OPTION_B", "OPTION_C", "OPTION_D", "CORRECT_OPTION", "CREATED_AT", "UPDATED_AT"}

func TestQuestionConverters(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	m := &models.Question{ID: "q1", QuestionText: "2+2?", OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "22", CorrectOption: 1, CreatedAt: now, UpdatedAt: now}

	q := toDomainQuestion(m)
	require.NotNil(t, q)
	assert.Equal(t, [4]string{"3", "4", "5", "22"}, q.Options)
	assert.Equal(t, 1, q.CorrectOption)
	assert.Equal(t, m, fromDomainQuestion(q))

	assert.Nil(t, toDomainQuestion(nil))
	assert.Nil(t, fromDomainQuestion(nil))
}

func TestQuestionRepository_ListQuestions(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT .* FROM questions ORDER BY created_at ASC, id ASC").
		WillReturnRows(sqlmock.NewRows(questionRowColumns).
			AddRow("q1", "first", "a", "b", "c", "d", 0, now, now).
			AddRow("q2", "second", "a", "b", "c", "d", 3, now, now))

	qs, err := repo.ListQuestions(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, 3, qs[1].CorrectOption)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_GetQuestionByID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM questions WHERE id = :1").WithArgs("q1").
			WillReturnRows(sqlmock.NewRows(questionRowColumns).AddRow("q1", "text", "a", "b", "c", "d", 2, now, now))
		q, err := repo.GetQuestionByID(ctx, "q1")
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, "text", q.Text)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM questions WHERE id = :1").WithArgs("missing").WillReturnError(sql.ErrNoRows)
		q, err := repo.GetQuestionByID(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, q)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM questions WHERE id = :1").WithArgs("q1").WillReturnError(errors.New("ORA-03113"))
		_, err := repo.GetQuestionByID(ctx, "q1")
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_CreateQuestion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	q := domain.NewQuestion("Capital of France?", [4]string{"Paris", "Rome", "Madrid", "Berlin"}, 0)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions (")).
		WithArgs(sqlmock.AnyArg(), "Capital of France?", "Paris", "Rome", "Madrid", "Berlin", 0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateQuestion(context.Background(), q))
	assert.Len(t, q.ID, 26)
	assert.False(t, q.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_UpdateAndDelete(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	ctx := context.Background()
	q := &domain.Question{ID: "q1", Text: "t", Options: [4]string{"a", "b", "c", "d"}, CorrectOption: 1}

	mock.ExpectExec("UPDATE questions SET").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateQuestion(ctx, q))

	mock.ExpectExec("UPDATE questions SET").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateQuestion(ctx, q), sql.ErrNoRows)

	mock.ExpectExec("DELETE FROM questions WHERE id = :1").WithArgs("q1").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteQuestion(ctx, "q1"))

	mock.ExpectExec("DELETE FROM questions WHERE id = :1").WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteQuestion(ctx, "gone"), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_FindAndCount(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("FROM questions WHERE question_text = :1 FETCH FIRST 1 ROWS ONLY").WithArgs("nope").WillReturnError(sql.ErrNoRows)
	q, err := repo.FindQuestionByText(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, q)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM questions")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(7))
	n, err := repo.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
