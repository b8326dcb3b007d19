// Package code generates the six-digit codes emailed for verification and
// password reset.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DefaultTTL is how long a code stays valid.
const DefaultTTL = 15 * time.Minute

const (
	minCode = 100000
	span    = 900000 // codes are in [100000, 999999]
)

// Generate returns a uniformly random code in [100000, 999999].
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+minCode), nil
}

// Expiry returns the expiry instant in unix millis for a code issued at now.
func Expiry(now time.Time, ttl time.Duration) int64 {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return now.Add(ttl).UnixMilli()
}

// Expired reports whether expiry (unix millis) lies before now.
func Expired(expiry int64, now time.Time) bool {
	return expiry < now.UnixMilli()
}
