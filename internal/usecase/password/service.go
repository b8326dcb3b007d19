// Package password implements password reset by emailed code.
package password

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/odhiyaty/odhiyaty/internal/domain"
	"github.com/odhiyaty/odhiyaty/internal/domain/code"
	domreset "github.com/odhiyaty/odhiyaty/internal/domain/reset"
	"github.com/odhiyaty/odhiyaty/internal/metrics"
)

const throttleScope = "password_reset"

// Service runs the reset flow. accounts, mailer and throttle may be nil.
type Service struct {
	users    UserFinder
	resets   ResetRepository
	accounts PasswordUpdater
	mailer   CodeMailer
	throttle Throttle
	codeTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a password service.
func New(
	users UserFinder, resets ResetRepository, accounts PasswordUpdater,
	mailer CodeMailer, throttle Throttle, codeTTL time.Duration, logger *zap.Logger,
) *Service {
	if codeTTL <= 0 {
		codeTTL = code.DefaultTTL
	}
	return &Service{
		users:    users,
		resets:   resets,
		accounts: accounts,
		mailer:   mailer,
		throttle: throttle,
		codeTTL:  codeTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// RequestReset stores a fresh reset code and emails it. sent is false when
// the email is unknown; callers must answer both cases the same way.
func (s *Service) RequestReset(ctx context.Context, email string) (sent bool, err error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, fmt.Errorf("email required: %w", domain.ErrInvalidRequest)
	}
	if s.accounts == nil || s.mailer == nil {
		return false, fmt.Errorf("password reset: %w", domain.ErrNotConfigured)
	}

	// Throttled by submitted address before lookup so known and unknown
	// emails answer alike.
	if s.throttle != nil {
		allowed, terr := s.throttle.Allow(ctx, throttleScope, email)
		if terr != nil {
			s.logger.Warn("Throttle unavailable, sending anyway", zap.Error(terr))
		} else if !allowed {
			metrics.CodeSendsThrottledTotal.Inc()
			return false, domain.ErrRateLimited
		}
	}

	u, ok := s.users.FindByEmail(ctx, email)
	if !ok {
		s.logger.Info("Password reset requested for unknown email", zap.String("email", email))
		return false, nil
	}

	c, err := code.Generate()
	if err != nil {
		return false, fmt.Errorf("generate code: %w", err)
	}
	if err := s.resets.Put(ctx, domreset.New(u.UID, email, c, s.now(), s.codeTTL)); err != nil {
		return false, fmt.Errorf("store reset request: %w", err)
	}

	res, err := s.mailer.SendPasswordReset(ctx, email, c)
	if err != nil {
		return false, err
	}
	s.logger.Info("Password reset code sent",
		zap.String("email", email),
		zap.String("provider", res.Provider),
		zap.String("message_id", res.MessageID))
	return true, nil
}

// Reset sets a new password once the emailed code is confirmed.
func (s *Service) Reset(ctx context.Context, email, submitted, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || submitted == "" || newPassword == "" {
		return fmt.Errorf("all fields required: %w", domain.ErrInvalidRequest)
	}
	if len(newPassword) < domain.MinPasswordLength {
		return domain.ErrWeakPassword
	}
	if s.accounts == nil {
		return fmt.Errorf("password reset: %w", domain.ErrNotConfigured)
	}

	u, ok := s.users.FindByEmail(ctx, email)
	if !ok {
		return domain.ErrUserNotFound
	}

	req, err := s.resets.Get(ctx, u.UID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNoResetRequested
		}
		return fmt.Errorf("get reset request: %w", err)
	}

	if err := req.Verify(submitted, s.now()); err != nil {
		if errors.Is(err, domain.ErrCodeExpired) {
			s.deleteRequest(ctx, u.UID)
		}
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, u.UID, newPassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.deleteRequest(ctx, u.UID)
	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, throttleScope, email); err != nil {
			s.logger.Warn("Failed to reset code throttle", zap.Error(err))
		}
	}
	return nil
}

func (s *Service) deleteRequest(ctx context.Context, uid string) {
	if err := s.resets.Delete(ctx, uid); err != nil {
		s.logger.Warn("Failed to delete reset request", zap.String("uid", uid), zap.Error(err))
	}
}
