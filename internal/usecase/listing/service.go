package listing

import (
	"context"
	"fmt"

	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// Service serves listings to buyers.
type Service struct {
	repo Repository
}

// New creates a listing service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns listings, only approved ones when approvedOnly is set.
// Storage failures yield an empty list.
func (s *Service) List(ctx context.Context, approvedOnly bool) []domain.Listing {
	return s.repo.List(ctx, approvedOnly)
}

// Get returns an approved listing.
func (s *Service) Get(ctx context.Context, id string) (domain.Listing, error) {
	if id == "" {
		return nil, fmt.Errorf("listing id required: %w", domain.ErrInvalidRequest)
	}
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	if !l.Approved() {
		return nil, domain.ErrListingUnavailable
	}
	return l, nil
}
