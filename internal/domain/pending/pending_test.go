package pending

import (
	"errors"
	"testing"
	"time"

	"github.com/odhiyaty/odhiyaty/internal/domain"
	"github.com/odhiyaty/odhiyaty/internal/domain/code"
)

var now = time.UnixMilli(1_704_067_200_000)

func TestNew_Valid(t *testing.T) {
	r, err := New(Params{Email: " a@b.dz ", Password: "secret", Role: "seller", Code: "123456"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Email() != "a@b.dz" {
		t.Errorf("Email() = %q", r.Email())
	}
	if r.Phone() != "" {
		t.Errorf("Phone() = %q, want empty", r.Phone())
	}
	if r.Expiry() != now.Add(code.DefaultTTL).UnixMilli() {
		t.Errorf("Expiry() = %d, want now+15m", r.Expiry())
	}
	if r.CreatedAt() != now.UnixMilli() {
		t.Errorf("CreatedAt() = %d", r.CreatedAt())
	}
	if r.ID() != "" {
		t.Errorf("ID() = %q, want empty", r.ID())
	}
}

func TestNew_KeepsSuppliedExpiry(t *testing.T) {
	r, err := New(Params{Email: "a@b.dz", Password: "p", Role: "buyer", Code: "1", Expiry: 42}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Expiry() != 42 {
		t.Errorf("Expiry() = %d, want 42", r.Expiry())
	}
}

func TestNew_MissingFields(t *testing.T) {
	tests := []Params{
		{Password: "p", Role: "buyer", Code: "1"},
		{Email: "a@b.dz", Role: "buyer", Code: "1"},
		{Email: "a@b.dz", Password: "p", Code: "1"},
		{Email: "a@b.dz", Password: "p", Role: "buyer"},
	}
	for i, p := range tests {
		if _, err := New(p, now); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("case %d: expected ErrInvalidRequest, got %v", i, err)
		}
	}
}

func TestVerify(t *testing.T) {
	r := Restore("id1", "a@b.dz", "p", "buyer", "", "123456", now.UnixMilli()+1000, now.UnixMilli())

	if err := r.Verify("123456", now); err != nil {
		t.Errorf("valid code: %v", err)
	}
	if err := r.Verify("000000", now); !errors.Is(err, domain.ErrInvalidCode) {
		t.Errorf("wrong code: got %v", err)
	}
	if err := r.Verify("123456", now.Add(time.Hour)); !errors.Is(err, domain.ErrCodeExpired) {
		t.Errorf("expired code: got %v", err)
	}
	// a wrong code is reported as wrong even when expired
	if err := r.Verify("000000", now.Add(time.Hour)); !errors.Is(err, domain.ErrInvalidCode) {
		t.Errorf("wrong+expired: got %v", err)
	}
}

func TestWithCode(t *testing.T) {
	r := Restore("id1", "a@b.dz", "p", "buyer", "", "111111", 1, 1)
	r2 := r.WithCode("222222", 99)

	if r.Code() != "111111" {
		t.Error("original registration must not change")
	}
	if r2.Code() != "222222" || r2.Expiry() != 99 || r2.ID() != "id1" {
		t.Errorf("unexpected copy: %+v", r2)
	}
}
