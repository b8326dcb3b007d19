package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore"
	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// Collection holds user profiles keyed by identity uid.
const Collection = "users"

// store is the consumer interface for user documents (ISP).
type store interface {
	FindOne(ctx context.Context, collection, field, value string) (firestore.Document, bool)
	Get(ctx context.Context, collection, id string) (firestore.Document, error)
	Set(ctx context.Context, collection, id string, rec wire.Record) error
	Update(ctx context.Context, collection, id string, rec wire.Record) error
	Delete(ctx context.Context, collection, id string) error
}

// Repo stores user profiles.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// FindByEmail returns the profile with the given email. Lookup failures read
// as "not found".
func (r *Repo) FindByEmail(ctx context.Context, email string) (domain.User, bool) {
	doc, ok := r.store.FindOne(ctx, Collection, "email", email)
	if !ok {
		return domain.User{}, false
	}
	return fromRecord(doc.ID, doc.Fields), true
}

// Get returns the profile stored under uid.
func (r *Repo) Get(ctx context.Context, uid string) (domain.User, error) {
	doc, err := r.store.Get(ctx, Collection, uid)
	if err != nil {
		if errors.Is(err, firestore.ErrNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user %s: %w", uid, err)
	}
	return fromRecord(uid, doc.Fields), nil
}

// Put writes the whole profile.
func (r *Repo) Put(ctx context.Context, u domain.User) error {
	if err := r.store.Set(ctx, Collection, u.UID, toRecord(u)); err != nil {
		return fmt.Errorf("put user %s: %w", u.UID, err)
	}
	return nil
}

// UpdateFields changes only the given fields. A nil value removes the field.
func (r *Repo) UpdateFields(ctx context.Context, uid string, fields wire.Record) error {
	if err := r.store.Update(ctx, Collection, uid, fields); err != nil {
		return fmt.Errorf("update user %s: %w", uid, err)
	}
	return nil
}

// Delete removes the profile. Missing profiles are not an error.
func (r *Repo) Delete(ctx context.Context, uid string) error {
	if err := r.store.Delete(ctx, Collection, uid); err != nil {
		return fmt.Errorf("delete user %s: %w", uid, err)
	}
	return nil
}
