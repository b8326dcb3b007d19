// Package reset models a stored password reset request.
package reset

import (
	"time"

	"github.com/odhiyaty/odhiyaty/internal/domain"
	"github.com/odhiyaty/odhiyaty/internal/domain/code"
)

// Request is the password_resets/{uid} document.
type Request struct {
	UID       string
	Email     string
	Code      string
	Expiry    int64 // unix millis; 0 when the stored value was unreadable
	CreatedAt int64
}

// New creates a request for uid issued at now.
func New(uid, email, resetCode string, now time.Time, ttl time.Duration) Request {
	return Request{
		UID:       uid,
		Email:     email,
		Code:      resetCode,
		Expiry:    code.Expiry(now, ttl),
		CreatedAt: now.UnixMilli(),
	}
}

// Verify checks a submitted code: mismatch first, then expiry. An unreadable
// expiry counts as expired.
func (r Request) Verify(submitted string, now time.Time) error {
	if submitted != r.Code {
		return domain.ErrInvalidCode
	}
	if r.Expiry == 0 || code.Expired(r.Expiry, now) {
		return domain.ErrCodeExpired
	}
	return nil
}
