package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/util"
	"quiz-arena/internal/validation"

	"go.uber.org/zap"
)

const (
	defaultAccountPageSize = 20
	maxAccountPageSize     = 100
	welcomeEmailTimeout    = 5 * time.Second
)

// AccountService covers registration, login and profile management.
type AccountService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, identity domain.AccountIdentity) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, identity domain.AccountIdentity, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	DeleteAccount(ctx context.Context, identity domain.AccountIdentity) error
	ListAccounts(ctx context.Context, page dto.Pagination) (*dto.UserListResponse, error)
}

type accountServiceImpl struct {
	accountRepo domain.AccountRepository
	txManager   domain.TransactionManager
	authService AuthService
	email       EmailService
	validator   *validation.Validator
}

func NewAccountService(
	accountRepo domain.AccountRepository,
	txManager domain.TransactionManager,
	authService AuthService,
	email EmailService,
) AccountService {
	if email == nil {
		email = &NoopEmailService{}
	}
	return &accountServiceImpl{
		accountRepo: accountRepo,
		txManager:   txManager,
		authService: authService,
		email:       email,
		validator:   validation.NewValidator(),
	}
}

func toProfileResponse(a *domain.Account) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ensureUnique returns CONFLICT when username or email belongs to an account other than selfID.
func (s *accountServiceImpl) ensureUnique(ctx context.Context, selfID, username, email string) error {
	if username != "" {
		existing, err := s.accountRepo.GetAccountByUsername(ctx, username)
		if err != nil {
			return domain.NewInternalError("failed to check username", err)
		}
		if existing != nil && existing.ID != selfID {
			return domain.NewConflictError("username already taken")
		}
	}
	if email != "" {
		existing, err := s.accountRepo.GetAccountByEmail(ctx, email)
		if err != nil {
			return domain.NewInternalError("failed to check email", err)
		}
		if existing != nil && existing.ID != selfID {
			return domain.NewConflictError("email already registered")
		}
	}
	return nil
}

func (s *accountServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	appLogger := logger.Get()
	if errs := s.validator.ValidateRegister(req); len(errs) > 0 {
		return nil, errs
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}
	account := domain.NewAccount(strings.TrimSpace(req.Username), normalizeEmail(req.Email), hash)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureUnique(txCtx, "", account.Username, account.Email); err != nil {
			return err
		}
		return s.accountRepo.CreateAccount(txCtx, account)
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewInternalError("failed to create account", err)
	}
	appLogger.Info("Account registered", zap.String("accountID", account.ID), zap.String("username", account.Username))

	tokens, err := s.authService.IssueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	go s.sendWelcome(ctx, account)

	return &dto.AuthResponse{Token: *tokens, User: toProfileResponse(account)}, nil
}

// sendWelcome runs detached from the request and gives the provider its own deadline.
func (s *accountServiceImpl) sendWelcome(ctx context.Context, account *domain.Account) {
	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeEmailTimeout)
	defer cancel()
	if err := s.email.SendWelcome(mailCtx, account.Email, account.Username, "welcome-"+account.ID); err != nil {
		logger.Get().Warn("Welcome email failed", zap.String("accountID", account.ID), zap.Error(err))
	}
}

func (s *accountServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if errs := s.validator.ValidateLogin(req); len(errs) > 0 {
		return nil, errs
	}
	tokens, account, err := s.authService.Authenticate(ctx, req.LoginIdentifier(), req.Password)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: *tokens, User: toProfileResponse(account)}, nil
}

func (s *accountServiceImpl) loadAccount(ctx context.Context, identity domain.AccountIdentity) (*domain.Account, error) {
	if identity.IsZero() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	account, err := s.accountRepo.GetAccountByID(ctx, identity.AccountID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get account", err)
	}
	if account == nil {
		return nil, domain.NewNotFoundError("account not found")
	}
	return account, nil
}

// liveIdentity reloads the account behind a token so renames and deletions made
// after the token was issued take effect. A nil repository keeps the token's view.
func liveIdentity(ctx context.Context, accounts domain.AccountRepository, identity domain.AccountIdentity) (domain.AccountIdentity, error) {
	if accounts == nil {
		return identity, nil
	}
	account, err := accounts.GetAccountByID(ctx, identity.AccountID)
	if err != nil {
		return identity, domain.NewInternalError("failed to load account", err)
	}
	if account == nil {
		return identity, domain.NewUnauthorizedError("account no longer exists")
	}
	identity.Username = account.Username
	identity.Email = account.Email
	identity.Role = account.Role
	return identity, nil
}

func (s *accountServiceImpl) GetProfile(ctx context.Context, identity domain.AccountIdentity) (*dto.UserProfileResponse, error) {
	account, err := s.loadAccount(ctx, identity)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(account)
	return &resp, nil
}

func (s *accountServiceImpl) UpdateProfile(ctx context.Context, identity domain.AccountIdentity, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	if errs := s.validator.ValidateProfileUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	var updated *domain.Account
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.loadAccount(txCtx, identity)
		if err != nil {
			return err
		}

		username := strings.TrimSpace(req.Username)
		email := normalizeEmail(req.Email)
		if err := s.ensureUnique(txCtx, account.ID, username, email); err != nil {
			return err
		}
		if username != "" {
			account.Username = username
		}
		if email != "" {
			account.Email = email
		}
		if req.Password != "" {
			hash, err := util.HashPassword(req.Password)
			if err != nil {
				return domain.NewInternalError("failed to hash password", err)
			}
			account.PasswordHash = hash
		}

		if err := s.accountRepo.UpdateAccount(txCtx, account); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewNotFoundError("account not found")
			}
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewInternalError("failed to update profile", err)
	}

	logger.Get().Info("Profile updated", zap.String("accountID", updated.ID))
	resp := toProfileResponse(updated)
	return &resp, nil
}

// DeleteAccount soft-deletes the caller. Recorded results are kept.
func (s *accountServiceImpl) DeleteAccount(ctx context.Context, identity domain.AccountIdentity) error {
	if identity.IsZero() {
		return domain.NewUnauthorizedError("authentication required")
	}
	if err := s.accountRepo.SoftDeleteAccount(ctx, identity.AccountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("account not found")
		}
		return domain.NewInternalError("failed to delete account", err)
	}
	logger.Get().Info("Account deleted", zap.String("accountID", identity.AccountID))
	return nil
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context, page dto.Pagination) (*dto.UserListResponse, error) {
	if page.Limit <= 0 {
		page.Limit = defaultAccountPageSize
	}
	if page.Limit > maxAccountPageSize {
		page.Limit = maxAccountPageSize
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	if page.Page > 0 {
		page.Offset = (page.Page - 1) * page.Limit
	} else {
		page.Page = page.Offset/page.Limit + 1
	}

	accounts, total, err := s.accountRepo.ListAccounts(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.NewInternalError("failed to list accounts", err)
	}

	users := make([]dto.UserProfileResponse, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, toProfileResponse(a))
	}
	return &dto.UserListResponse{Users: users, PaginationInfo: dto.NewPaginationInfo(total, page)}, nil
}
