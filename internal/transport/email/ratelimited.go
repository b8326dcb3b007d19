package email

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited paces sends across the process.
type RateLimited struct {
	inner   Sender
	limiter *rate.Limiter
}

// NewRateLimited allows perSecond sends with the given burst.
func NewRateLimited(inner Sender, perSecond float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{inner: inner, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Send waits for a token, then delegates.
func (r *RateLimited) Send(ctx context.Context, msg Message) (Result, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("email rate limit: %w", err)
	}
	return r.inner.Send(ctx, msg)
}
