package order

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// Service sends order confirmations.
type Service struct {
	mailer Mailer
	logger *zap.Logger
}

// New creates an order service. mailer may be nil.
func New(mailer Mailer, logger *zap.Logger) *Service {
	return &Service{mailer: mailer, logger: logger}
}

// SendConfirmation emails the customer and notifies the admin. Only the
// customer email decides the outcome.
func (s *Service) SendConfirmation(ctx context.Context, email string, order domain.Order) (domain.Delivery, error) {
	email = strings.TrimSpace(email)
	if email == "" || order.Details == nil {
		return domain.Delivery{}, fmt.Errorf("email and order data required: %w", domain.ErrInvalidRequest)
	}
	if s.mailer == nil {
		return domain.Delivery{}, fmt.Errorf("email: %w", domain.ErrNotConfigured)
	}

	res, err := s.mailer.SendOrderConfirmation(ctx, email, order)
	if err != nil {
		return domain.Delivery{}, err
	}

	if _, err := s.mailer.SendAdminNotification(ctx, email, order); err != nil {
		s.logger.Warn("Admin order notification failed",
			zap.String("order_id", order.ID), zap.Error(err))
	}
	return res, nil
}
