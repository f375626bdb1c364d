package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	bearerTokenType  = "Bearer"
)

// AuthService issues and validates the HS256 session credentials.
type AuthService interface {
	// Authenticate resolves identifier as an email (when it contains "@") or a username.
	Authenticate(ctx context.Context, identifier, secret string) (*dto.TokenResponse, *domain.Account, error)
	IssueTokens(ctx context.Context, account *domain.Account) (*dto.TokenResponse, error)
	Validate(ctx context.Context, credential string) (domain.AccountIdentity, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, account *domain.Account, ttl time.Duration, tokenType string) (string, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
}

type authServiceImpl struct {
	accountRepo domain.AccountRepository
	jwtCfg      config.JWTConfig
	parser      *jwt.Parser
}

// NewAuthService fails when no signing secret is configured.
func NewAuthService(accountRepo domain.AccountRepository, jwtCfg config.JWTConfig) (AuthService, error) {
	if jwtCfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if jwtCfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(jwtCfg.Issuer))
	}
	return &authServiceImpl{
		accountRepo: accountRepo,
		jwtCfg:      jwtCfg,
		parser:      jwt.NewParser(opts...),
	}, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, identifier, secret string) (*dto.TokenResponse, *domain.Account, error) {
	appLogger := logger.Get()
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, nil, domain.NewAuthFailedError()
	}

	var (
		account *domain.Account
		err     error
	)
	if strings.Contains(identifier, "@") {
		account, err = s.accountRepo.GetAccountByEmail(ctx, strings.ToLower(identifier))
	} else {
		account, err = s.accountRepo.GetAccountByUsername(ctx, identifier)
	}
	if err != nil {
		appLogger.Error("Failed to look up account for login", zap.Error(err))
		return nil, nil, domain.NewInternalError("failed to look up account", err)
	}
	if account == nil || !util.CheckPassword(account.PasswordHash, secret) {
		appLogger.Info("Login rejected", zap.String("identifier", identifier))
		return nil, nil, domain.NewAuthFailedError()
	}

	tokens, err := s.IssueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	appLogger.Info("Account logged in", zap.String("accountID", account.ID))
	return tokens, account, nil
}

func (s *authServiceImpl) IssueTokens(ctx context.Context, account *domain.Account) (*dto.TokenResponse, error) {
	access, err := s.CreateJWT(ctx, account, s.jwtCfg.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return nil, domain.NewInternalError("failed to create access token", err)
	}
	refresh, err := s.CreateJWT(ctx, account, s.jwtCfg.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return nil, domain.NewInternalError("failed to create refresh token", err)
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    bearerTokenType,
		ExpiresAt:    time.Now().Add(s.jwtCfg.AccessTokenTTL),
	}, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, account *domain.Account, ttl time.Duration, tokenType string) (string, error) {
	if account == nil {
		return "", errors.New("cannot sign a token for a nil account")
	}
	now := time.Now()
	claims := dto.AuthClaims{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      string(account.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.jwtCfg.Issuer,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.SecretKey))
}

// ValidateJWT checks signature and expiry. Expired tokens map to TOKEN_EXPIRED, anything else to UNAUTHORIZED.
func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, domain.NewUnauthorizedError("missing token")
	}

	claims := &dto.AuthClaims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewTokenExpiredError(err)
		}
		logger.Get().Debug("JWT validation failed", zap.Error(err))
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid token", err)
	}
	if !token.Valid || claims.AccountID == "" {
		return nil, domain.NewUnauthorizedError("invalid token")
	}
	return claims, nil
}

// Validate resolves an access token to the identity it carries. It performs no I/O.
func (s *authServiceImpl) Validate(ctx context.Context, credential string) (domain.AccountIdentity, error) {
	claims, err := s.ValidateJWT(ctx, credential)
	if err != nil {
		return domain.AccountIdentity{}, err
	}
	if claims.TokenType != tokenTypeAccess {
		return domain.AccountIdentity{}, domain.NewUnauthorizedError("access token required")
	}
	return domain.AccountIdentity{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Email:     claims.Email,
		Role:      domain.Role(claims.Role),
	}, nil
}

// RefreshToken re-reads the account so deleted accounts cannot renew their session.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.ValidateJWT(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, domain.NewUnauthorizedError("refresh token required")
	}

	account, err := s.accountRepo.GetAccountByID(ctx, claims.AccountID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up account", err)
	}
	if account == nil {
		return nil, domain.NewUnauthorizedError(fmt.Sprintf("account %s no longer exists", claims.AccountID))
	}

	tokens, err := s.IssueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("JWT token refreshed", zap.String("accountID", account.ID))
	return tokens, nil
}
