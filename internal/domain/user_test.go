package domain

import "testing"

func TestListingApproved(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		want    bool
	}{
		{"approved", Listing{"status": "approved"}, true},
		{"pending", Listing{"status": "pending"}, false},
		{"rejected", Listing{"status": "rejected"}, false},
		{"missing status", Listing{"price": 45000}, false},
		{"non-string status", Listing{"status": true}, false},
		{"case sensitive", Listing{"status": "Approved"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.listing.Approved(); got != tc.want {
				t.Errorf("Approved() = %v, want %v", got, tc.want)
			}
		})
	}
}
