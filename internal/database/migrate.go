package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"quiz-arena/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const ensureMigrationsTable = `BEGIN
	EXECUTE IMMEDIATE 'CREATE TABLE schema_migrations (
		version NUMBER(19) PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT SYSTIMESTAMP NOT NULL
	)';
EXCEPTION
	WHEN OTHERS THEN
		IF SQLCODE != -955 THEN
			RAISE;
		END IF;
END;`

// MigrationStatus describes one migration file pair and whether it has been applied.
type MigrationStatus struct {
	Version uint
	Name    string
	Applied bool
}

// Migrator applies the numbered *.up.sql / *.down.sql files through sqlx.
// golang-migrate ships no Oracle database driver, so only its source side is used.
type Migrator struct {
	db  *sqlx.DB
	src source.Driver
}

// NewMigrator reads the migrations embedded in the binary.
func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	return NewMigratorFS(db, embeddedMigrations, "migrations")
}

// NewMigratorFS reads migrations from dir inside fsys.
func NewMigratorFS(db *sqlx.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

// Close releases the migration source.
func (m *Migrator) Close() error {
	return m.src.Close()
}

func (m *Migrator) versions() ([]uint, error) {
	var out []uint
	v, err := m.src.First()
	for err == nil {
		out = append(out, v)
		v, err = m.src.Next(v)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	return nil, fmt.Errorf("failed to list migrations: %w", err)
}

func (m *Migrator) applied(ctx context.Context) (map[uint]bool, error) {
	if _, err := m.db.ExecContext(ctx, ensureMigrationsTable); err != nil {
		return nil, fmt.Errorf("failed to ensure schema_migrations: %w", err)
	}
	var rows []uint
	if err := m.db.SelectContext(ctx, &rows, `SELECT version FROM schema_migrations ORDER BY version`); err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	done := make(map[uint]bool, len(rows))
	for _, v := range rows {
		done[v] = true
	}
	return done, nil
}

// Up applies every migration not yet recorded and returns the versions it ran.
func (m *Migrator) Up(ctx context.Context) ([]uint, error) {
	appLogger := logger.Get()

	all, err := m.versions()
	if err != nil {
		return nil, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var ran []uint
	for _, v := range all {
		if done[v] {
			continue
		}
		r, name, err := m.src.ReadUp(v)
		if err != nil {
			return ran, fmt.Errorf("failed to read migration %d: %w", v, err)
		}
		if err := m.execScript(ctx, r); err != nil {
			return ran, fmt.Errorf("migration %d_%s failed: %w", v, name, err)
		}
		if _, err := m.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (:1)`, v); err != nil {
			return ran, fmt.Errorf("failed to record migration %d: %w", v, err)
		}
		appLogger.Info("Applied migration", zap.Uint("version", v), zap.String("name", name))
		ran = append(ran, v)
	}
	return ran, nil
}

// Down rolls back the most recently applied migration. It returns 0 when nothing was applied.
func (m *Migrator) Down(ctx context.Context) (uint, error) {
	all, err := m.versions()
	if err != nil {
		return 0, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	for i := len(all) - 1; i >= 0; i-- {
		v := all[i]
		if !done[v] {
			continue
		}
		r, name, err := m.src.ReadDown(v)
		if err != nil {
			return 0, fmt.Errorf("failed to read down migration %d: %w", v, err)
		}
		if err := m.execScript(ctx, r); err != nil {
			return 0, fmt.Errorf("rollback %d_%s failed: %w", v, name, err)
		}
		if _, err := m.db.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = :1`, v); err != nil {
			return 0, fmt.Errorf("failed to unrecord migration %d: %w", v, err)
		}
		logger.Get().Info("Rolled back migration", zap.Uint("version", v), zap.String("name", name))
		return v, nil
	}
	return 0, nil
}

// Status lists every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	all, err := m.versions()
	if err != nil {
		return nil, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MigrationStatus, 0, len(all))
	for _, v := range all {
		r, name, err := m.src.ReadUp(v)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %d: %w", v, err)
		}
		r.Close()
		out = append(out, MigrationStatus{Version: v, Name: name, Applied: done[v]})
	}
	return out, nil
}

func (m *Migrator) execScript(ctx context.Context, r io.ReadCloser) error {
	defer r.Close()
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	for _, stmt := range SplitStatements(string(body)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w (statement: %.80s)", err, stmt)
		}
	}
	return nil
}

// SplitStatements breaks a script into single statements on lines ending with ";".
// Oracle rejects a trailing semicolon on plain SQL, so it is stripped. Lines starting
// with "--" are dropped.
func SplitStatements(script string) []string {
	var (
		stmts []string
		cur   strings.Builder
	)
	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			cur.WriteString(strings.TrimSuffix(trimmed, ";"))
			flush()
			continue
		}
		cur.WriteString(trimmed)
		cur.WriteString("\n")
	}
	flush()
	return stmts
}
