package domain

// User is the profile stored under users/{uid}.
type User struct {
	UID           string
	Email         string
	Role          string
	Phone         string
	Address       string
	City          string
	FullName      string
	EmailVerified bool
	CreatedAt     int64 // unix millis

	// Legacy in-profile verification, cleared once the email is verified.
	VerificationToken       string
	VerificationTokenExpiry int64 // unix millis, 0 when unset
}

// Identity is an account known to the identity provider.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Order is the payload of an order confirmation. Details carries the client's
// order object as sent.
type Order struct {
	ID      string
	Details map[string]any
}

// Listing is a sheep listing as stored, with its id merged in.
type Listing map[string]any

// ListingStatusApproved marks a listing visible to buyers.
const ListingStatusApproved = "approved"

// Approved reports whether the listing can be shown publicly.
func (l Listing) Approved() bool {
	s, _ := l["status"].(string)
	return s == ListingStatusApproved
}

// Delivery identifies an email accepted by a provider.
type Delivery struct {
	Provider  string
	MessageID string
}
