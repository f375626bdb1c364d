package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quiz-arena/internal/config"
	"quiz-arena/internal/logger"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

const emailSendAttempts = 3

// EmailService sends transactional emails.
type EmailService interface {
	SendWelcome(ctx context.Context, toEmail, username, idempotencyKey string) error
}

// NoopEmailService is used when no Resend API key is configured.
type NoopEmailService struct{}

func (s *NoopEmailService) SendWelcome(ctx context.Context, toEmail, username, idempotencyKey string) error {
	logger.Get().Debug("Email disabled, skipping welcome mail", zap.String("to", toEmail))
	return nil
}

// ResendEmailService sends emails through the Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{from: from, client: resend.NewClient(apiKey)}, nil
}

// NewEmailService picks Resend when an API key is configured and the no-op sender otherwise.
func NewEmailService(cfg config.EmailConfig) (EmailService, error) {
	if strings.TrimSpace(cfg.ResendAPIKey) == "" {
		return &NoopEmailService{}, nil
	}
	return NewResendEmailService(cfg.ResendAPIKey, cfg.From)
}

func (s *ResendEmailService) SendWelcome(ctx context.Context, toEmail, username, idempotencyKey string) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Welcome to Quiz Arena",
		Text:    fmt.Sprintf("Hi %s, your account is ready. Start a quiz and climb the leaderboard.", username),
		Html:    fmt.Sprintf("<p>Hi <strong>%s</strong>,</p><p>Your account is ready. Start a quiz and climb the leaderboard.</p>", username),
	}
	options := &resend.SendEmailOptions{IdempotencyKey: strings.TrimSpace(idempotencyKey)}

	var lastErr error
	for attempt := 0; attempt < emailSendAttempts; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		wait, ok := resendRetryDelay(err, attempt)
		if !ok {
			return fmt.Errorf("resend send failed: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			return time.Duration(min(seconds, 30)) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}
	return 0, false
}
