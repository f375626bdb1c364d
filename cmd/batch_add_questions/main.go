package main

import (
	"context"
	"fmt"
	"os"

	"quiz-arena/internal/adapter/export"
	"quiz-arena/internal/config"
	"quiz-arena/internal/database"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/repository"
	"quiz-arena/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "batch_add_questions <workbook.xlsx>",
		Short: "Import questions from a spreadsheet into the question bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := logger.Initialize(cfg.Logger); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			requests, err := export.ReadQuestionsXLSX(file)
			if err != nil {
				return err
			}
			logger.Get().Info("Workbook read", zap.String("path", args[0]), zap.Int("questions", len(requests)))

			db, err := database.NewSQLXDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewSQLXQuestionRepository(db)
			imp := importer{repo: repo, questions: service.NewQuestionService(repo, cfg.Quiz), dryRun: dryRun}
			created, skipped, err := imp.run(cmd.Context(), requests)
			logger.Get().Info("Batch import finished",
				zap.Int("created", created),
				zap.Int("skipped", skipped),
				zap.Bool("dry_run", dryRun))
			return err
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to YAML config (default: search ./configs)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and report without writing")
	return cmd
}

// importer adds questions whose text is not already in the bank. Creation goes
// through QuestionService so rows get the same validation as the admin API.
type importer struct {
	repo      domain.QuestionRepository
	questions service.QuestionService
	dryRun    bool
}

func (imp importer) run(ctx context.Context, requests []dto.QuestionRequest) (created, skipped int, err error) {
	for i, req := range requests {
		existing, err := imp.repo.FindQuestionByText(ctx, req.Question)
		if err != nil {
			return created, skipped, fmt.Errorf("question %d: %w", i+1, err)
		}
		if existing != nil {
			skipped++
			continue
		}
		if imp.dryRun {
			created++
			continue
		}
		q, err := imp.questions.CreateQuestion(ctx, req)
		if err != nil {
			return created, skipped, fmt.Errorf("question %d (%.40q): %w", i+1, req.Question, err)
		}
		logger.Get().Debug("Question imported", zap.String("id", q.ID))
		created++
	}
	return created, skipped, nil
}
