package reset

import (
	"errors"
	"testing"
	"time"

	"github.com/odhiyaty/odhiyaty/internal/domain"
)

func TestNew(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	r := New("u1", "a@b.dz", "123456", now, time.Minute)

	if r.Expiry != 1_060_000 {
		t.Errorf("Expiry = %d", r.Expiry)
	}
	if r.CreatedAt != 1_000_000 {
		t.Errorf("CreatedAt = %d", r.CreatedAt)
	}
}

func TestVerify(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	tests := []struct {
		name string
		req  Request
		code string
		want error
	}{
		{"valid", Request{Code: "123456", Expiry: 2_000_000}, "123456", nil},
		{"wrong code", Request{Code: "123456", Expiry: 2_000_000}, "654321", domain.ErrInvalidCode},
		{"expired", Request{Code: "123456", Expiry: 999_999}, "123456", domain.ErrCodeExpired},
		{"unreadable expiry", Request{Code: "123456"}, "123456", domain.ErrCodeExpired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Verify(tc.code, now)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
