package domain

import (
	"context"
	"time"
)

// Role distinguishes regular players from question-bank administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account represents a registered user.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// NewAccount creates a new Account with the user role.
func NewAccount(username, email, passwordHash string) *Account {
	now := time.Now()
	return &Account{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Identity returns the attribution value handed to operations that need an owner.
func (a *Account) Identity() AccountIdentity {
	return AccountIdentity{
		AccountID: a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
	}
}

// AccountIdentity is resolved once per request from a valid credential and
// passed explicitly to every operation that needs to know who is acting.
type AccountIdentity struct {
	AccountID string
	Username  string
	Email     string
	Role      Role
}

// IsZero reports whether the identity was never resolved.
func (i AccountIdentity) IsZero() bool {
	return i.AccountID == ""
}

func (i AccountIdentity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// AccountRepository defines the interface for account persistence.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *Account) error
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	UpdateAccount(ctx context.Context, account *Account) error
	SoftDeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context, limit, offset int) ([]*Account, int, error)
}

// TransactionManager runs fn inside a single database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
