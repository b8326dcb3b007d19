package email

import (
	"context"
	"fmt"
	"time"

	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// Mailer renders and sends the application's messages. Delivery failures
// are reported as domain.ErrEmailDelivery.
type Mailer struct {
	sender     Sender
	templates  *Templates
	codeTTL    time.Duration
	adminEmail string
}

// NewMailer creates a mailer. codeTTL is quoted in code emails.
func NewMailer(sender Sender, templates *Templates, codeTTL time.Duration, adminEmail string) *Mailer {
	return &Mailer{sender: sender, templates: templates, codeTTL: codeTTL, adminEmail: adminEmail}
}

// SendVerification emails a registration code.
func (m *Mailer) SendVerification(ctx context.Context, to, code string) (Result, error) {
	msg, err := m.templates.Verification(to, code, m.minutes())
	if err != nil {
		return Result{}, err
	}
	return m.send(ctx, msg)
}

// SendPasswordReset emails a reset code.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, code string) (Result, error) {
	msg, err := m.templates.PasswordReset(to, code, m.minutes())
	if err != nil {
		return Result{}, err
	}
	return m.send(ctx, msg)
}

// SendOrderConfirmation emails the customer's receipt.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, to string, order domain.Order) (Result, error) {
	msg, err := m.templates.OrderConfirmation(to, order.ID)
	if err != nil {
		return Result{}, err
	}
	return m.send(ctx, msg)
}

// SendAdminNotification tells the administrator about a new order.
func (m *Mailer) SendAdminNotification(ctx context.Context, customer string, order domain.Order) (Result, error) {
	msg, err := m.templates.AdminNotification(m.adminEmail, order.ID, customer)
	if err != nil {
		return Result{}, err
	}
	return m.send(ctx, msg)
}

func (m *Mailer) send(ctx context.Context, msg Message) (Result, error) {
	res, err := m.sender.Send(ctx, msg)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s to %s: %w", domain.ErrEmailDelivery, msg.Kind, msg.To, err)
	}
	return res, nil
}

func (m *Mailer) minutes() int {
	mins := int(m.codeTTL / time.Minute)
	if mins <= 0 {
		mins = 15
	}
	return mins
}
