// Package pending models a registration waiting for email verification.
package pending

import (
	"fmt"
	"strings"
	"time"

	"github.com/odhiyaty/odhiyaty/internal/domain"
	"github.com/odhiyaty/odhiyaty/internal/domain/code"
)

// Registration is a sign-up held until the emailed code is confirmed.
// The password is kept as submitted: the identity account is only created on
// completion.
type Registration struct {
	id        string
	email     string
	password  string
	role      string
	phone     string
	code      string
	expiry    int64 // unix millis
	createdAt int64 // unix millis
}

// Params are the fields of a new registration. Code and Expiry may be zero;
// the caller fills them before calling New.
type Params struct {
	Email    string
	Password string
	Role     string
	Phone    string
	Code     string
	Expiry   int64
}

// New validates params and creates a registration stamped with now.
func New(p Params, now time.Time) (Registration, error) {
	email := strings.TrimSpace(p.Email)
	if email == "" || p.Password == "" || strings.TrimSpace(p.Role) == "" {
		return Registration{}, fmt.Errorf("email, password and role are required: %w", domain.ErrInvalidRequest)
	}
	if p.Code == "" {
		return Registration{}, fmt.Errorf("verification code is required: %w", domain.ErrInvalidRequest)
	}
	expiry := p.Expiry
	if expiry == 0 {
		expiry = code.Expiry(now, code.DefaultTTL)
	}
	return Registration{
		email:     email,
		password:  p.Password,
		role:      strings.TrimSpace(p.Role),
		phone:     p.Phone,
		code:      p.Code,
		expiry:    expiry,
		createdAt: now.UnixMilli(),
	}, nil
}

// Restore rebuilds a stored registration without validation.
func Restore(id, email, password, role, phone, verificationCode string, expiry, createdAt int64) Registration {
	return Registration{
		id:        id,
		email:     email,
		password:  password,
		role:      role,
		phone:     phone,
		code:      verificationCode,
		expiry:    expiry,
		createdAt: createdAt,
	}
}

// ID returns the document id, empty until stored.
func (r Registration) ID() string { return r.id }

// Email returns the address being registered.
func (r Registration) Email() string { return r.email }

// Password returns the submitted password.
func (r Registration) Password() string { return r.password }

// Role returns the requested account role.
func (r Registration) Role() string { return r.role }

// Phone returns the phone number, possibly empty.
func (r Registration) Phone() string { return r.phone }

// Code returns the current verification code.
func (r Registration) Code() string { return r.code }

// Expiry returns the code expiry (unix millis).
func (r Registration) Expiry() int64 { return r.expiry }

// CreatedAt returns the creation time (unix millis).
func (r Registration) CreatedAt() int64 { return r.createdAt }

// WithID returns a copy bound to a stored document.
func (r Registration) WithID(id string) Registration {
	r.id = id
	return r
}

// WithCode returns a copy carrying a fresh code.
func (r Registration) WithCode(verificationCode string, expiry int64) Registration {
	r.code = verificationCode
	r.expiry = expiry
	return r
}

// Verify checks a submitted code. The code is compared before the expiry.
func (r Registration) Verify(submitted string, now time.Time) error {
	if submitted != r.code {
		return domain.ErrInvalidCode
	}
	if code.Expired(r.expiry, now) {
		return domain.ErrCodeExpired
	}
	return nil
}
