package main

import (
	"fmt"
	"os"

	"quiz-arena/cmd/seed_initial_data/internal/seeder"
	"quiz-arena/cmd/seed_initial_data/internal/seedmodels"
	"quiz-arena/internal/config"
	"quiz-arena/internal/database"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultSeedFile = "configs/seed_data/questions.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		seedPath   string
		migrate    bool
	)

	cmd := &cobra.Command{
		Use:   "seed_initial_data",
		Short: "Load the question bank and an optional admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := logger.Initialize(cfg.Logger); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()
			log := logger.Get()

			f, err := seedmodels.Load(seedPath)
			if err != nil {
				return err
			}
			log.Info("Loaded seed data", zap.String("path", seedPath), zap.Int("questions", len(f.Questions)))

			db, err := database.NewSQLXDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if migrate {
				m, err := database.NewMigrator(db)
				if err != nil {
					return err
				}
				ran, err := m.Up(ctx)
				m.Close()
				if err != nil {
					return err
				}
				log.Info("Migrations applied before seeding", zap.Int("count", len(ran)))
			}

			s := seeder.New(
				repository.NewSQLXQuestionRepository(db),
				repository.NewSQLXAccountRepository(db),
				repository.NewTransactionManagerAdapter(db),
			)
			report, err := s.Seed(ctx, f)
			if err != nil {
				return err
			}
			log.Info("Initial data seeding completed",
				zap.Int("questions_created", report.QuestionsCreated),
				zap.Int("questions_skipped", report.QuestionsSkipped),
				zap.Bool("admin_created", report.AdminCreated))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to YAML config (default: search ./configs)")
	cmd.Flags().StringVar(&seedPath, "file", defaultSeedFile, "seed data file")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations first")
	return cmd
}
