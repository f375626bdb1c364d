// Package seeder loads the initial question bank and an optional administrator.
package seeder

import (
	"context"
	"fmt"

	"quiz-arena/cmd/seed_initial_data/internal/seedmodels"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/util"
	"quiz-arena/internal/validation"

	"go.uber.org/zap"
)

// Report counts what a run created and skipped.
type Report struct {
	QuestionsCreated int
	QuestionsSkipped int
	AdminCreated     bool
}

type Seeder struct {
	questions domain.QuestionRepository
	accounts  domain.AccountRepository
	tx        domain.TransactionManager
	validator *validation.Validator
}

func New(questions domain.QuestionRepository, accounts domain.AccountRepository, tx domain.TransactionManager) *Seeder {
	return &Seeder{questions: questions, accounts: accounts, tx: tx, validator: validation.NewValidator()}
}

// Seed is idempotent: questions whose text already exists and an admin whose
// username is taken are left untouched. Questions are written in one transaction.
func (s *Seeder) Seed(ctx context.Context, f *seedmodels.SeedFile) (*Report, error) {
	log := logger.Get()
	report := &Report{}

	parsed := make([]*domain.Question, 0, len(f.Questions))
	for i, sq := range f.Questions {
		q, err := sq.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("seed question %d: %w", i, err)
		}
		parsed = append(parsed, q)
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, q := range parsed {
			existing, err := s.questions.FindQuestionByText(ctx, q.Text)
			if err != nil {
				return fmt.Errorf("failed to look up question %q: %w", firstN(q.Text, 40), err)
			}
			if existing != nil {
				log.Debug("Question exists, skipping", zap.String("id", existing.ID))
				report.QuestionsSkipped++
				continue
			}
			if err := s.questions.CreateQuestion(ctx, q); err != nil {
				return fmt.Errorf("failed to create question %q: %w", firstN(q.Text, 40), err)
			}
			log.Info("Created question", zap.String("id", q.ID), zap.String("preview", firstN(q.Text, 40)))
			report.QuestionsCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if f.Admin != nil {
		created, err := s.seedAdmin(ctx, *f.Admin)
		if err != nil {
			return report, err
		}
		report.AdminCreated = created
	}
	return report, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, admin seedmodels.SeedAdmin) (bool, error) {
	req := dto.RegisterRequest{Username: admin.Username, Email: admin.Email, Password: admin.Password}
	if errs := s.validator.ValidateRegister(req); len(errs) > 0 {
		return false, fmt.Errorf("invalid admin account: %w", errs)
	}
	existing, err := s.accounts.GetAccountByUsername(ctx, admin.Username)
	if err != nil {
		return false, fmt.Errorf("failed to look up admin %s: %w", admin.Username, err)
	}
	if existing != nil {
		logger.Get().Info("Admin account exists, skipping", zap.String("username", admin.Username))
		return false, nil
	}

	hash, err := util.HashPassword(admin.Password)
	if err != nil {
		return false, err
	}
	account := domain.NewAccount(admin.Username, admin.Email, hash)
	account.Role = domain.RoleAdmin
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return false, fmt.Errorf("failed to create admin %s: %w", admin.Username, err)
	}
	logger.Get().Info("Created admin account", zap.String("id", account.ID), zap.String("username", account.Username))
	return true, nil
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
