package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand/v2"
	"strings"

	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"

	"go.uber.org/zap"
)

// QuestionService manages the question bank and builds attempt question sets.
type QuestionService interface {
	ListQuestions(ctx context.Context) ([]dto.QuestionResponse, error)
	GetQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error)
	CreateQuestion(ctx context.Context, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id string) error
	// QuestionSet returns the questions for a new attempt, shuffled and truncated per config.
	QuestionSet(ctx context.Context) ([]*domain.Question, error)
}

type questionServiceImpl struct {
	repo    domain.QuestionRepository
	quizCfg config.QuizConfig
	shuffle func([]*domain.Question)
}

func NewQuestionService(repo domain.QuestionRepository, quizCfg config.QuizConfig) QuestionService {
	return &questionServiceImpl{
		repo:    repo,
		quizCfg: quizCfg,
		shuffle: func(qs []*domain.Question) {
			rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		},
	}
}

func toQuestionResponse(q *domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:            q.ID,
		Question:      q.Text,
		OptionA:       q.Options[0],
		OptionB:       q.Options[1],
		OptionC:       q.Options[2],
		OptionD:       q.Options[3],
		CorrectOption: q.CorrectOption,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func applyQuestionRequest(q *domain.Question, req dto.QuestionRequest) {
	q.Text = strings.TrimSpace(req.Question)
	q.Options = [domain.OptionCount]string{
		strings.TrimSpace(req.OptionA),
		strings.TrimSpace(req.OptionB),
		strings.TrimSpace(req.OptionC),
		strings.TrimSpace(req.OptionD),
	}
	q.CorrectOption = -1
	if req.CorrectOption != nil {
		q.CorrectOption = *req.CorrectOption
	}
}

func (s *questionServiceImpl) ListQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list questions", err)
	}
	out := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, toQuestionResponse(q))
	}
	return out, nil
}

func (s *questionServiceImpl) GetQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	q, err := s.repo.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to get question", err)
	}
	if q == nil {
		return nil, domain.NewQuestionNotFoundError(id)
	}
	resp := toQuestionResponse(q)
	return &resp, nil
}

func (s *questionServiceImpl) CreateQuestion(ctx context.Context, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	q := &domain.Question{}
	applyQuestionRequest(q, req)
	if errs := q.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if err := s.repo.CreateQuestion(ctx, q); err != nil {
		return nil, domain.NewInternalError("failed to create question", err)
	}
	logger.Get().Info("Question created", zap.String("questionID", q.ID))
	resp := toQuestionResponse(q)
	return &resp, nil
}

func (s *questionServiceImpl) UpdateQuestion(ctx context.Context, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	existing, err := s.repo.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to get question", err)
	}
	if existing == nil {
		return nil, domain.NewQuestionNotFoundError(id)
	}

	applyQuestionRequest(existing, req)
	if errs := existing.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if err := s.repo.UpdateQuestion(ctx, existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuestionNotFoundError(id)
		}
		return nil, domain.NewInternalError("failed to update question", err)
	}
	logger.Get().Info("Question updated", zap.String("questionID", id))
	resp := toQuestionResponse(existing)
	return &resp, nil
}

func (s *questionServiceImpl) DeleteQuestion(ctx context.Context, id string) error {
	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewQuestionNotFoundError(id)
		}
		return domain.NewInternalError("failed to delete question", err)
	}
	logger.Get().Info("Question deleted", zap.String("questionID", id))
	return nil
}

func (s *questionServiceImpl) QuestionSet(ctx context.Context) ([]*domain.Question, error) {
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}
	if s.quizCfg.Shuffle {
		s.shuffle(questions)
	}
	if n := s.quizCfg.QuestionCount; n > 0 && n < len(questions) {
		questions = questions[:n]
	}
	return questions, nil
}
