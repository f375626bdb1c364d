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

const accountColumns = `id, username, email, password_hash, role, created_at, updated_at, deleted_at`

type sqlxAccountRepository struct {
	db DBTX
}

// NewSQLXAccountRepository returns a domain.AccountRepository backed by the ACCOUNTS table.
// Soft-deleted rows are invisible to every read.
func NewSQLXAccountRepository(db DBTX) domain.AccountRepository {
	return &sqlxAccountRepository{db: db}
}

func toDomainAccount(m *models.Account) *domain.Account {
	if m == nil {
		return nil
	}
	return &domain.Account{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		DeletedAt:    util.NullTimeToPtr(m.DeletedAt),
	}
}

func fromDomainAccount(a *domain.Account) *models.Account {
	if a == nil {
		return nil
	}
	role := string(a.Role)
	if role == "" {
		role = string(domain.RoleUser)
	}
	return &models.Account{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         role,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		DeletedAt:    util.TimePtrToNullTime(a.DeletedAt),
	}
}

func (r *sqlxAccountRepository) CreateAccount(ctx context.Context, a *domain.Account) error {
	if a == nil {
		return fmt.Errorf("cannot create nil account")
	}
	if a.ID == "" {
		a.ID = util.NewULID()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	m := fromDomainAccount(a)
	a.Role = domain.Role(m.Role)

	query := `INSERT INTO accounts (id, username, email, password_hash, role, created_at, updated_at)
	VALUES (:1, :2, :3, :4, :5, :6, :7)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.Username, m.Email, m.PasswordHash, m.Role, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if util.IsUniqueViolation(err) {
			return domain.NewError(domain.CodeConflict, "username or email already registered", err)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *sqlxAccountRepository) getOne(ctx context.Context, column, value string) (*domain.Account, error) {
	var row models.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + column + ` = :1 AND deleted_at IS NULL`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by %s: %w", column, err)
	}
	return toDomainAccount(&row), nil
}

// GetAccountByID returns (nil, nil) for unknown or deleted accounts.
func (r *sqlxAccountRepository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getOne(ctx, "id", id)
}

func (r *sqlxAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, "email", email)
}

func (r *sqlxAccountRepository) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.getOne(ctx, "username", username)
}

// UpdateAccount writes username, email, password hash and role. Returns sql.ErrNoRows
// when the account is missing or deleted.
func (r *sqlxAccountRepository) UpdateAccount(ctx context.Context, a *domain.Account) error {
	if a == nil {
		return fmt.Errorf("cannot update nil account")
	}
	a.UpdatedAt = time.Now()
	m := fromDomainAccount(a)

	query := `UPDATE accounts SET username = :1, email = :2, password_hash = :3, role = :4, updated_at = :5
	WHERE id = :6 AND deleted_at IS NULL`
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.Username, m.Email, m.PasswordHash, m.Role, m.UpdatedAt, m.ID)
	if err != nil {
		if util.IsUniqueViolation(err) {
			return domain.NewError(domain.CodeConflict, "username or email already registered", err)
		}
		return fmt.Errorf("failed to update account %s: %w", a.ID, err)
	}
	return expectAffected(res)
}

// SoftDeleteAccount stamps deleted_at. Results referencing the account are left untouched.
func (r *sqlxAccountRepository) SoftDeleteAccount(ctx context.Context, id string) error {
	now := time.Now()
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`UPDATE accounts SET deleted_at = :1, updated_at = :2 WHERE id = :3 AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return expectAffected(res)
}

// ListAccounts pages through live accounts and returns the total live count.
func (r *sqlxAccountRepository) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, int, error) {
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM accounts WHERE deleted_at IS NULL`); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	var rows []models.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE deleted_at IS NULL
	ORDER BY created_at ASC, id ASC OFFSET :1 ROWS FETCH NEXT :2 ROWS ONLY`
	if err := exec.SelectContext(ctx, &rows, query, offset, limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainAccount(&rows[i]))
	}
	return out, total, nil
}
