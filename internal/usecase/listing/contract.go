package listing

import (
	"context"

	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// Repository reads sheep listings.
type Repository interface {
	List(ctx context.Context, approvedOnly bool) []domain.Listing
	Get(ctx context.Context, id string) (domain.Listing, error)
}
