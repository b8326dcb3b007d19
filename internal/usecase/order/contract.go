package order

import (
	"context"

	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// Mailer sends order emails.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, order domain.Order) (domain.Delivery, error)
	SendAdminNotification(ctx context.Context, customer string, order domain.Order) (domain.Delivery, error)
}
