package domain

import "errors"

var (
	// ErrInvalidRequest signals missing or malformed request fields.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmailInUse signals an email already registered with the identity provider or in users.
	ErrEmailInUse = errors.New("email already in use")
	// ErrUserNotFound signals an unknown account.
	ErrUserNotFound = errors.New("user not found")
	// ErrPendingNotFound signals a missing pending registration.
	ErrPendingNotFound = errors.New("pending registration not found")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCode signals a verification or reset code mismatch.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrCodeExpired signals a code past its expiry.
	ErrCodeExpired = errors.New("verification code expired")
	// ErrNoResetRequested signals a reset attempt without a stored reset request.
	ErrNoResetRequested = errors.New("no password reset requested")
	// ErrWeakPassword signals a password shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password too short")
	// ErrForbidden signals an operation refused for this account.
	ErrForbidden = errors.New("forbidden")
	// ErrListingUnavailable signals a listing that exists but is not approved.
	ErrListingUnavailable = errors.New("listing not available")
	// ErrRateLimited signals too many code emails for one address.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmailDelivery signals that no email provider accepted the message.
	ErrEmailDelivery = errors.New("email delivery failed")
	// ErrNotConfigured signals a backend (identity provider, email) missing from config.
	ErrNotConfigured = errors.New("service not configured")
)

// MinPasswordLength is the shortest password accepted on reset.
const MinPasswordLength = 6
