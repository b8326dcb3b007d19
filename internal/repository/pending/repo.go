package pending

import (
	"context"
	"fmt"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore"
	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
	dompending "github.com/odhiyaty/odhiyaty/internal/domain/pending"
)

// Collection holds registrations awaiting verification.
const Collection = "pending_registrations"

const (
	fieldEmail     = "email"
	fieldPassword  = "password"
	fieldRole      = "role"
	fieldPhone     = "phone"
	fieldCode      = "verificationCode"
	fieldExpiry    = "tokenExpiry"
	fieldCreatedAt = "createdAt"
)

// store is the consumer interface for pending registrations (ISP).
type store interface {
	FindOne(ctx context.Context, collection, field, value string) (firestore.Document, bool)
	Set(ctx context.Context, collection, id string, rec wire.Record) error
	Create(ctx context.Context, collection string, rec wire.Record) (string, error)
	Update(ctx context.Context, collection, id string, rec wire.Record) error
	Delete(ctx context.Context, collection, id string) error
}

// Repo stores pending registrations.
type Repo struct {
	store store
}

// New creates a pending registration repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// FindByEmail returns the first pending registration for email.
func (r *Repo) FindByEmail(ctx context.Context, email string) (dompending.Registration, bool) {
	doc, ok := r.store.FindOne(ctx, Collection, fieldEmail, email)
	if !ok {
		return dompending.Registration{}, false
	}
	f := doc.Fields
	expiry, _ := f.Int(fieldExpiry)
	createdAt, _ := f.Int(fieldCreatedAt)
	return dompending.Restore(
		doc.ID,
		f.String(fieldEmail),
		f.String(fieldPassword),
		f.String(fieldRole),
		f.String(fieldPhone),
		f.String(fieldCode),
		expiry,
		createdAt,
	), true
}

// Save overwrites the registration when it has an id and creates a new
// document otherwise. Returns the stored registration.
func (r *Repo) Save(ctx context.Context, reg dompending.Registration) (dompending.Registration, error) {
	rec := wire.Record{
		fieldEmail:     reg.Email(),
		fieldPassword:  reg.Password(),
		fieldRole:      reg.Role(),
		fieldPhone:     reg.Phone(),
		fieldCode:      reg.Code(),
		fieldExpiry:    reg.Expiry(),
		fieldCreatedAt: reg.CreatedAt(),
	}

	if reg.ID() != "" {
		if err := r.store.Set(ctx, Collection, reg.ID(), rec); err != nil {
			return dompending.Registration{}, fmt.Errorf("save pending %s: %w", reg.ID(), err)
		}
		return reg, nil
	}

	id, err := r.store.Create(ctx, Collection, rec)
	if err != nil {
		return dompending.Registration{}, fmt.Errorf("create pending: %w", err)
	}
	return reg.WithID(id), nil
}

// UpdateCode stores a fresh code and expiry on an existing registration.
func (r *Repo) UpdateCode(ctx context.Context, id, verificationCode string, expiry int64) error {
	err := r.store.Update(ctx, Collection, id, wire.Record{
		fieldCode:   verificationCode,
		fieldExpiry: expiry,
	})
	if err != nil {
		return fmt.Errorf("update pending code %s: %w", id, err)
	}
	return nil
}

// Delete removes a registration. Missing documents are not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, Collection, id); err != nil {
		return fmt.Errorf("delete pending %s: %w", id, err)
	}
	return nil
}
