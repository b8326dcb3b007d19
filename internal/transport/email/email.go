// Package email delivers transactional mail. Resend is the primary provider;
// SMTP is used when Resend fails.
package email

import (
	"context"
	"errors"
	"time"

	"github.com/odhiyaty/odhiyaty/internal/domain"
	"github.com/odhiyaty/odhiyaty/internal/metrics"
)

// ErrNoProvider is returned when no sender is configured.
var ErrNoProvider = errors.New("email: no provider configured")

// Kind labels a message for metrics and logs.
type Kind string

// Message kinds.
const (
	KindVerification      Kind = "verification"
	KindPasswordReset     Kind = "password_reset"
	KindOrderConfirmation Kind = "order_confirmation"
	KindAdminNotification Kind = "admin_notification"
)

// Message is one rendered email.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	HTML    string
	Text    string // optional plain-text alternative
}

// Result identifies a delivered message.
type Result = domain.Delivery

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}

func observe(provider string, kind Kind, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.EmailSendDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	metrics.EmailSendsTotal.WithLabelValues(provider, string(kind), status).Inc()
}
