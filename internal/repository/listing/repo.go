package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore"
	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// Collection holds sheep listings.
const Collection = "sheep"

// store is the consumer interface for listings (ISP).
type store interface {
	Query(ctx context.Context, q firestore.Query) []firestore.Document
	Get(ctx context.Context, collection, id string) (firestore.Document, error)
}

// Repo reads sheep listings.
type Repo struct {
	store store
}

// New creates a listing repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// List returns listings, only approved ones when approvedOnly is set. Never
// fails: store errors yield an empty slice.
func (r *Repo) List(ctx context.Context, approvedOnly bool) []domain.Listing {
	q := firestore.Query{Collection: Collection}
	if approvedOnly {
		q.Filters = []firestore.Filter{firestore.Eq("status", domain.ListingStatusApproved)}
	}

	docs := r.store.Query(ctx, q)
	out := make([]domain.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Listing(d.Flatten("id")))
	}
	return out
}

// Get returns one listing with its id merged in.
func (r *Repo) Get(ctx context.Context, id string) (domain.Listing, error) {
	doc, err := r.store.Get(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, firestore.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	doc.ID = id
	return domain.Listing(doc.Flatten("id")), nil
}
