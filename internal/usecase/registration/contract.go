package registration

import (
	"context"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
	"github.com/odhiyaty/odhiyaty/internal/domain"
	dompending "github.com/odhiyaty/odhiyaty/internal/domain/pending"
)

// IdentityProvider manages sign-in accounts.
type IdentityProvider interface {
	LookupByEmail(ctx context.Context, email string) (domain.Identity, bool, error)
	Create(ctx context.Context, email, password string) (domain.Identity, error)
	Delete(ctx context.Context, uid string) error
}

// UserRepository stores user profiles.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, bool)
	Put(ctx context.Context, u domain.User) error
	UpdateFields(ctx context.Context, uid string, fields wire.Record) error
	Delete(ctx context.Context, uid string) error
}

// PendingRepository stores registrations awaiting verification.
type PendingRepository interface {
	FindByEmail(ctx context.Context, email string) (dompending.Registration, bool)
	Save(ctx context.Context, reg dompending.Registration) (dompending.Registration, error)
	UpdateCode(ctx context.Context, id, code string, expiry int64) error
	Delete(ctx context.Context, id string) error
}

// CodeMailer emails verification codes.
type CodeMailer interface {
	SendVerification(ctx context.Context, to, code string) (domain.Delivery, error)
}

// Throttle limits code emails per address.
type Throttle interface {
	Allow(ctx context.Context, scope, email string) (bool, error)
	Reset(ctx context.Context, scope, email string) error
}
