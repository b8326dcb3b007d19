package reset

import (
	"context"
	"errors"
	"fmt"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore"
	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
	"github.com/odhiyaty/odhiyaty/internal/domain"
	domreset "github.com/odhiyaty/odhiyaty/internal/domain/reset"
)

// Collection holds one reset request per user, keyed by uid.
const Collection = "password_resets"

// store is the consumer interface for reset requests (ISP).
type store interface {
	Get(ctx context.Context, collection, id string) (firestore.Document, error)
	Set(ctx context.Context, collection, id string, rec wire.Record) error
	Delete(ctx context.Context, collection, id string) error
}

// Repo stores password reset requests.
type Repo struct {
	store store
}

// New creates a reset request repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns the request for uid, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, uid string) (domreset.Request, error) {
	doc, err := r.store.Get(ctx, Collection, uid)
	if err != nil {
		if errors.Is(err, firestore.ErrNotFound) {
			return domreset.Request{}, domain.ErrNotFound
		}
		return domreset.Request{}, fmt.Errorf("get reset %s: %w", uid, err)
	}

	f := doc.Fields
	// expiry was historically written both as a number and as a numeric string
	expiry, _ := f.Int("expiry")
	createdAt, _ := f.Int("createdAt")
	return domreset.Request{
		UID:       uid,
		Email:     f.String("email"),
		Code:      f.String("code"),
		Expiry:    expiry,
		CreatedAt: createdAt,
	}, nil
}

// Put writes the request, replacing any previous one for the same user.
func (r *Repo) Put(ctx context.Context, req domreset.Request) error {
	err := r.store.Set(ctx, Collection, req.UID, wire.Record{
		"email":     req.Email,
		"code":      req.Code,
		"expiry":    req.Expiry,
		"createdAt": req.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("put reset %s: %w", req.UID, err)
	}
	return nil
}

// Delete removes the request for uid. Missing documents are not an error.
func (r *Repo) Delete(ctx context.Context, uid string) error {
	if err := r.store.Delete(ctx, Collection, uid); err != nil {
		return fmt.Errorf("delete reset %s: %w", uid, err)
	}
	return nil
}
