package password

import (
	"context"

	"github.com/odhiyaty/odhiyaty/internal/domain"
	domreset "github.com/odhiyaty/odhiyaty/internal/domain/reset"
)

// UserFinder looks up profiles by email.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (domain.User, bool)
}

// ResetRepository stores reset requests keyed by uid.
type ResetRepository interface {
	Get(ctx context.Context, uid string) (domreset.Request, error)
	Put(ctx context.Context, req domreset.Request) error
	Delete(ctx context.Context, uid string) error
}

// PasswordUpdater changes account passwords.
type PasswordUpdater interface {
	UpdatePassword(ctx context.Context, uid, password string) error
}

// CodeMailer emails reset codes.
type CodeMailer interface {
	SendPasswordReset(ctx context.Context, to, code string) (domain.Delivery, error)
}

// Throttle limits code emails per address.
type Throttle interface {
	Allow(ctx context.Context, scope, email string) (bool, error)
	Reset(ctx context.Context, scope, email string) error
}
