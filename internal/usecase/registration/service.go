// Package registration implements sign-up with emailed verification codes
// and the legacy in-profile email verification.
package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
	"github.com/odhiyaty/odhiyaty/internal/domain"
	"github.com/odhiyaty/odhiyaty/internal/domain/code"
	dompending "github.com/odhiyaty/odhiyaty/internal/domain/pending"
	"github.com/odhiyaty/odhiyaty/internal/metrics"
	userrepo "github.com/odhiyaty/odhiyaty/internal/repository/user"
)

const throttleScope = "verification"

// Outcome describes a request that succeeded without doing the usual work.
type Outcome int

const (
	// Done means the requested action was carried out.
	Done Outcome = iota
	// AlreadyVerified means the account needed no verification.
	AlreadyVerified
	// Cleared means an orphaned identity account was removed and no profile existed.
	Cleared
)

// PendingRequest is a sign-up submission.
type PendingRequest struct {
	Email    string
	Password string
	Role     string
	Phone    string
	// Code and Expiry are optional; a code is generated and emailed when Code is empty.
	Code   string
	Expiry int64
}

// Service runs the registration flows. identity, mailer and throttle may be nil.
type Service struct {
	identity IdentityProvider
	users    UserRepository
	pending  PendingRepository
	mailer   CodeMailer
	throttle Throttle
	codeTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a registration service.
func New(
	identity IdentityProvider, users UserRepository, pending PendingRepository,
	mailer CodeMailer, throttle Throttle, codeTTL time.Duration, logger *zap.Logger,
) *Service {
	if codeTTL <= 0 {
		codeTTL = code.DefaultTTL
	}
	return &Service{
		identity: identity,
		users:    users,
		pending:  pending,
		mailer:   mailer,
		throttle: throttle,
		codeTTL:  codeTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Pending stores a registration waiting for its code. An existing pending
// registration for the same email is overwritten.
func (s *Service) Pending(ctx context.Context, req PendingRequest) error {
	now := s.now()
	generated := req.Code == ""
	if generated && strings.TrimSpace(req.Email) != "" {
		c, err := code.Generate()
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		req.Code = c
		req.Expiry = code.Expiry(now, s.codeTTL)
	}

	reg, err := dompending.New(dompending.Params{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Code:     req.Code,
		Expiry:   req.Expiry,
	}, now)
	if err != nil {
		return err
	}

	if err := s.ensureUnused(ctx, reg.Email()); err != nil {
		return err
	}

	// A refused send must leave the previously emailed code in place.
	if generated {
		if err := s.admitSend(ctx, reg.Email()); err != nil {
			return err
		}
	}

	if existing, ok := s.pending.FindByEmail(ctx, reg.Email()); ok {
		reg = reg.WithID(existing.ID())
	}
	if _, err := s.pending.Save(ctx, reg); err != nil {
		return fmt.Errorf("save pending registration: %w", err)
	}

	if generated {
		return s.deliver(ctx, reg.Email(), reg.Code())
	}
	return nil
}

func (s *Service) ensureUnused(ctx context.Context, email string) error {
	if s.identity != nil {
		_, found, err := s.identity.LookupByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("lookup identity: %w", err)
		}
		if found {
			return domain.ErrEmailInUse
		}
	} else {
		s.logger.Warn("Identity provider not configured, registering without account check",
			zap.String("email", email))
	}

	if _, found := s.users.FindByEmail(ctx, email); found {
		return domain.ErrEmailInUse
	}
	return nil
}

// Complete checks the code of a pending registration, creates the account
// and its profile, and removes the pending registration.
func (s *Service) Complete(ctx context.Context, email, submitted string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || submitted == "" {
		return domain.User{}, fmt.Errorf("code and email required: %w", domain.ErrInvalidRequest)
	}
	if s.identity == nil {
		return domain.User{}, fmt.Errorf("identity provider: %w", domain.ErrNotConfigured)
	}

	reg, ok := s.pending.FindByEmail(ctx, email)
	if !ok {
		return domain.User{}, domain.ErrPendingNotFound
	}
	if err := reg.Verify(submitted, s.now()); err != nil {
		return domain.User{}, err
	}

	id, err := s.identity.Create(ctx, reg.Email(), reg.Password())
	if err != nil {
		return domain.User{}, fmt.Errorf("create account: %w", err)
	}

	u := domain.User{
		UID:           id.UID,
		Email:         reg.Email(),
		Role:          reg.Role(),
		Phone:         reg.Phone(),
		EmailVerified: true,
		CreatedAt:     s.now().UnixMilli(),
	}
	if err := s.users.Put(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("write profile: %w", err)
	}

	if err := s.pending.Delete(ctx, reg.ID()); err != nil {
		s.logger.Warn("Failed to delete completed pending registration",
			zap.String("id", reg.ID()), zap.Error(err))
	}
	s.resetThrottle(ctx, email)
	return u, nil
}

// ResendPending issues a fresh code for a pending registration.
func (s *Service) ResendPending(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email required: %w", domain.ErrInvalidRequest)
	}
	reg, ok := s.pending.FindByEmail(ctx, email)
	if !ok {
		return domain.ErrPendingNotFound
	}

	if err := s.admitSend(ctx, email); err != nil {
		return err
	}
	c, err := code.Generate()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.pending.UpdateCode(ctx, reg.ID(), c, code.Expiry(s.now(), s.codeTTL)); err != nil {
		return fmt.Errorf("update pending code: %w", err)
	}
	return s.deliver(ctx, email, c)
}

// CancelPending removes the pending registration for email, if any.
func (s *Service) CancelPending(ctx context.Context, email string) error {
	reg, ok := s.pending.FindByEmail(ctx, strings.TrimSpace(email))
	if !ok {
		return nil
	}
	if err := s.pending.Delete(ctx, reg.ID()); err != nil {
		s.logger.Warn("Failed to cancel pending registration",
			zap.String("id", reg.ID()), zap.Error(err))
	}
	return nil
}

// SendVerification emails a code chosen by the caller.
func (s *Service) SendVerification(ctx context.Context, email, c string) error {
	email = strings.TrimSpace(email)
	if email == "" || c == "" {
		return fmt.Errorf("email and code required: %w", domain.ErrInvalidRequest)
	}
	if err := s.admitSend(ctx, email); err != nil {
		return err
	}
	return s.deliver(ctx, email, c)
}

// ResendVerification stores a new code on the profile and emails it.
func (s *Service) ResendVerification(ctx context.Context, email string) (Outcome, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Done, fmt.Errorf("email required: %w", domain.ErrInvalidRequest)
	}
	u, ok := s.users.FindByEmail(ctx, email)
	if !ok {
		return Done, domain.ErrUserNotFound
	}
	if u.EmailVerified {
		return AlreadyVerified, nil
	}

	if err := s.admitSend(ctx, email); err != nil {
		return Done, err
	}
	c, err := code.Generate()
	if err != nil {
		return Done, fmt.Errorf("generate code: %w", err)
	}
	if err := s.users.UpdateFields(ctx, u.UID, wire.Record{
		userrepo.FieldVerificationToken:       c,
		userrepo.FieldVerificationTokenExpiry: code.Expiry(s.now(), s.codeTTL),
	}); err != nil {
		return Done, fmt.Errorf("store verification token: %w", err)
	}
	return Done, s.deliver(ctx, email, c)
}

// VerifyEmail checks the profile's code and marks the email verified.
func (s *Service) VerifyEmail(ctx context.Context, email, submitted string) (Outcome, error) {
	email = strings.TrimSpace(email)
	if email == "" || submitted == "" {
		return Done, fmt.Errorf("code and email required: %w", domain.ErrInvalidRequest)
	}
	u, ok := s.users.FindByEmail(ctx, email)
	if !ok {
		return Done, domain.ErrUserNotFound
	}
	if u.EmailVerified {
		return AlreadyVerified, nil
	}
	if u.VerificationToken == "" || u.VerificationToken != submitted {
		return Done, domain.ErrInvalidCode
	}
	if u.VerificationTokenExpiry != 0 && code.Expired(u.VerificationTokenExpiry, s.now()) {
		return Done, domain.ErrCodeExpired
	}

	if err := s.users.UpdateFields(ctx, u.UID, wire.Record{
		userrepo.FieldEmailVerified:           true,
		userrepo.FieldVerificationToken:       nil,
		userrepo.FieldVerificationTokenExpiry: nil,
	}); err != nil {
		return Done, fmt.Errorf("mark verified: %w", err)
	}
	s.resetThrottle(ctx, email)
	return Done, nil
}

// DeleteUnverified removes an account that never verified its email.
// Verified accounts are refused.
func (s *Service) DeleteUnverified(ctx context.Context, email string) (Outcome, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Done, fmt.Errorf("email required: %w", domain.ErrInvalidRequest)
	}
	if s.identity == nil {
		return Done, fmt.Errorf("identity provider: %w", domain.ErrNotConfigured)
	}

	u, ok := s.users.FindByEmail(ctx, email)
	if !ok {
		id, found, err := s.identity.LookupByEmail(ctx, email)
		if err != nil {
			return Done, fmt.Errorf("lookup identity: %w", err)
		}
		if found && !id.EmailVerified {
			if err := s.identity.Delete(ctx, id.UID); err != nil {
				return Done, fmt.Errorf("delete orphaned account: %w", err)
			}
		}
		return Cleared, nil
	}
	if u.EmailVerified {
		return Done, fmt.Errorf("cannot delete verified account: %w", domain.ErrForbidden)
	}

	if err := s.identity.Delete(ctx, u.UID); err != nil {
		return Done, fmt.Errorf("delete account: %w", err)
	}
	if err := s.users.Delete(ctx, u.UID); err != nil {
		return Done, fmt.Errorf("delete profile: %w", err)
	}
	return Done, nil
}

func (s *Service) resetThrottle(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, throttleScope, email); err != nil {
		s.logger.Warn("Failed to reset code throttle", zap.Error(err))
	}
}

// admitSend checks that a code email can go out before any code is stored.
func (s *Service) admitSend(ctx context.Context, email string) error {
	if s.mailer == nil {
		return fmt.Errorf("email: %w", domain.ErrNotConfigured)
	}
	if s.throttle == nil {
		return nil
	}
	allowed, err := s.throttle.Allow(ctx, throttleScope, email)
	if err != nil {
		s.logger.Warn("Throttle unavailable, sending anyway", zap.Error(err))
		return nil
	}
	if !allowed {
		metrics.CodeSendsThrottledTotal.Inc()
		return domain.ErrRateLimited
	}
	return nil
}

func (s *Service) deliver(ctx context.Context, email, c string) error {
	res, err := s.mailer.SendVerification(ctx, email, c)
	if err != nil {
		return err
	}
	s.logger.Info("Verification code sent",
		zap.String("email", email),
		zap.String("provider", res.Provider),
		zap.String("message_id", res.MessageID))
	return nil
}
