package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validQuestionRequest() dto.QuestionRequest {
	return dto.QuestionRequest{
		Question:      "  What is 2+2?  ",
		OptionA:       "3",
		OptionB:       "4",
		OptionC:       "5",
		OptionD:       "22",
		CorrectOption: intPtr(1),
	}
}

func TestQuestionService_CreateQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("success trims input", func(t *testing.T) {
		repo := new(MockQuestionRepository)
		repo.On("CreateQuestion", mock.Anything, mock.MatchedBy(func(q *domain.Question) bool {
			return q.Text == "What is 2+2?" && q.CorrectOption == 1
		})).Return(nil)

		svc := NewQuestionService(repo, config.QuizConfig{})
		resp, err := svc.CreateQuestion(ctx, validQuestionRequest())
		require.NoError(t, err)
		assert.Equal(t, "What is 2+2?", resp.Question)
		assert.Equal(t, "4", resp.OptionB)
		repo.AssertExpectations(t)
	})

	t.Run("invalid question is rejected before storage", func(t *testing.T) {
		repo := new(MockQuestionRepository)
		svc := NewQuestionService(repo, config.QuizConfig{})

		req := validQuestionRequest()
		req.OptionC = "   "
		req.CorrectOption = intPtr(4)
		_, err := svc.CreateQuestion(ctx, req)

		var verrs domain.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs, 2)
		repo.AssertNotCalled(t, "CreateQuestion", mock.Anything, mock.Anything)
	})

	t.Run("missing correct option", func(t *testing.T) {
		svc := NewQuestionService(new(MockQuestionRepository), config.QuizConfig{})
		req := validQuestionRequest()
		req.CorrectOption = nil
		_, err := svc.CreateQuestion(ctx, req)
		assert.Error(t, err)
	})
}

func TestQuestionService_GetAndUpdate(t *testing.T) {
	ctx := context.Background()
	existing := sampleQuestions(1)[0]

	repo := new(MockQuestionRepository)
	repo.On("GetQuestionByID", mock.Anything, "missing").Return(nil, nil)
	repo.On("GetQuestionByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("UpdateQuestion", mock.Anything, existing).Return(nil)
	svc := NewQuestionService(repo, config.QuizConfig{})

	_, err := svc.GetQuestion(ctx, "missing")
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))

	_, err = svc.UpdateQuestion(ctx, "missing", validQuestionRequest())
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))

	resp, err := svc.UpdateQuestion(ctx, existing.ID, validQuestionRequest())
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	assert.Equal(t, 1, resp.CorrectOption)
}

func TestQuestionService_DeleteQuestion(t *testing.T) {
	repo := new(MockQuestionRepository)
	repo.On("DeleteQuestion", mock.Anything, "q1").Return(nil)
	repo.On("DeleteQuestion", mock.Anything, "q2").Return(sql.ErrNoRows)
	repo.On("DeleteQuestion", mock.Anything, "q3").Return(errors.New("boom"))
	svc := NewQuestionService(repo, config.QuizConfig{})

	assert.NoError(t, svc.DeleteQuestion(context.Background(), "q1"))
	assert.True(t, domain.HasCode(svc.DeleteQuestion(context.Background(), "q2"), domain.CodeNotFound))
	assert.True(t, domain.HasCode(svc.DeleteQuestion(context.Background(), "q3"), domain.CodeInternal))
}

func TestQuestionService_QuestionSet(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps bank order without shuffle", func(t *testing.T) {
		repo := new(MockQuestionRepository)
		repo.On("ListQuestions", mock.Anything).Return(sampleQuestions(5), nil)
		svc := NewQuestionService(repo, config.QuizConfig{QuestionCount: 3})

		set, err := svc.QuestionSet(ctx)
		require.NoError(t, err)
		require.Len(t, set, 3)
		assert.Equal(t, []string{"q0", "q1", "q2"}, []string{set[0].ID, set[1].ID, set[2].ID})
	})

	t.Run("shuffles before truncating", func(t *testing.T) {
		repo := new(MockQuestionRepository)
		repo.On("ListQuestions", mock.Anything).Return(sampleQuestions(4), nil)
		svc := NewQuestionService(repo, config.QuizConfig{Shuffle: true, QuestionCount: 2}).(*questionServiceImpl)
		svc.shuffle = func(qs []*domain.Question) {
			for i, j := 0, len(qs)-1; i < j; i, j = i+1, j-1 {
				qs[i], qs[j] = qs[j], qs[i]
			}
		}

		set, err := svc.QuestionSet(ctx)
		require.NoError(t, err)
		assert.Equal(t, "q3", set[0].ID)
		assert.Equal(t, "q2", set[1].ID)
	})

	t.Run("empty bank", func(t *testing.T) {
		repo := new(MockQuestionRepository)
		repo.On("ListQuestions", mock.Anything).Return([]*domain.Question{}, nil)
		svc := NewQuestionService(repo, config.QuizConfig{QuestionCount: 10})

		set, err := svc.QuestionSet(ctx)
		require.NoError(t, err)
		assert.Empty(t, set)
	})
}
