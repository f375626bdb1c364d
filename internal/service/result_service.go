package service

import (
	"context"
	"fmt"

	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"

	"go.uber.org/zap"
)

// ResultService serves a participant's own history and the admin export.
type ResultService interface {
	MyResults(ctx context.Context, identity domain.AccountIdentity, limit int) ([]dto.ResultResponse, error)
	// ExportResults returns every result encoded by the configured exporter, plus its content type and extension.
	ExportResults(ctx context.Context) (data []byte, contentType string, extension string, err error)
}

type resultServiceImpl struct {
	repo     domain.ResultRepository
	exporter domain.ResultExporter
	cfg      config.LeaderboardConfig
}

func NewResultService(repo domain.ResultRepository, exporter domain.ResultExporter, cfg config.LeaderboardConfig) ResultService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	return &resultServiceImpl{repo: repo, exporter: exporter, cfg: cfg}
}

func toResultResponse(r *domain.Result) dto.ResultResponse {
	return dto.ResultResponse{
		ID:             r.ID,
		AttemptID:      r.AttemptID,
		Username:       r.Username,
		TotalQuestions: r.TotalQuestions,
		CorrectAnswers: r.CorrectAnswers,
		Score:          r.Score,
		CreatedAt:      r.CreatedAt,
	}
}

func (s *resultServiceImpl) MyResults(ctx context.Context, identity domain.AccountIdentity, limit int) ([]dto.ResultResponse, error) {
	if identity.IsZero() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}

	results, err := s.repo.ListResultsByAccount(ctx, identity.AccountID, limit)
	if err != nil {
		return nil, domain.NewInternalError("failed to list results", err)
	}
	out := make([]dto.ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, toResultResponse(r))
	}
	return out, nil
}

func (s *resultServiceImpl) ExportResults(ctx context.Context) ([]byte, string, string, error) {
	if s.exporter == nil {
		return nil, "", "", domain.NewInternalError("no result exporter configured", nil)
	}
	results, err := s.repo.ListAllResults(ctx)
	if err != nil {
		return nil, "", "", domain.NewInternalError("failed to list results", err)
	}
	data, err := s.exporter.Export(results)
	if err != nil {
		return nil, "", "", domain.NewInternalError(fmt.Sprintf("failed to export %d results", len(results)), err)
	}
	logger.Get().Info("Results exported", zap.Int("rows", len(results)), zap.Int("bytes", len(data)))
	return data, s.exporter.ContentType(), s.exporter.FileExtension(), nil
}
