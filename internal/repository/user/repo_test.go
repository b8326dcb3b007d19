package user

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore"
	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
	"github.com/odhiyaty/odhiyaty/internal/domain"
)

func TestFindByEmail_Found(t *testing.T) {
	s := &mockStore{
		findOneFn: func(_ context.Context, collection, field, value string) (firestore.Document, bool) {
			if collection != "users" || field != "email" || value != "a@b.dz" {
				t.Errorf("unexpected lookup %s.%s=%s", collection, field, value)
			}
			return firestore.Document{ID: "u1", Fields: wire.Record{
				"email":                        "a@b.dz",
				"role":                         "seller",
				"emailVerified":                false,
				"createdAt":                    int64(1704067200000),
				"emailVerificationToken":       "123456",
				"emailVerificationTokenExpiry": "1704068100000",
			}}, true
		},
	}

	u, ok := New(s).FindByEmail(context.Background(), "a@b.dz")
	if !ok {
		t.Fatal("expected user")
	}
	if u.UID != "u1" {
		t.Errorf("UID = %q, want id fallback u1", u.UID)
	}
	if u.Role != "seller" || u.CreatedAt != 1704067200000 {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.VerificationTokenExpiry != 1704068100000 {
		t.Errorf("string expiry should be read as integer, got %d", u.VerificationTokenExpiry)
	}
}

func TestFindByEmail_Missing(t *testing.T) {
	if _, ok := New(&mockStore{}).FindByEmail(context.Background(), "x@b.dz"); ok {
		t.Fatal("expected not found")
	}
}

func TestGet_NotFoundMapsToDomain(t *testing.T) {
	_, err := New(&mockStore{}).Get(context.Background(), "u1")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGet_OtherErrorWrapped(t *testing.T) {
	s := &mockStore{getFn: func(context.Context, string, string) (firestore.Document, error) {
		return firestore.Document{}, &firestore.StatusError{Op: firestore.OpGet, StatusCode: http.StatusForbidden}
	}}
	_, err := New(s).Get(context.Background(), "u1")
	if err == nil || errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected wrapped status error, got %v", err)
	}
}

func TestPut_WritesProfile(t *testing.T) {
	var got wire.Record
	s := &mockStore{setFn: func(_ context.Context, collection, id string, rec wire.Record) error {
		if collection != "users" || id != "u1" {
			t.Errorf("unexpected target %s/%s", collection, id)
		}
		got = rec
		return nil
	}}

	err := New(s).Put(context.Background(), domain.User{
		UID: "u1", Email: "a@b.dz", Role: "buyer", EmailVerified: true, CreatedAt: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["uid"] != "u1" || got["emailVerified"] != true || got["fullName"] != "" {
		t.Errorf("unexpected record: %v", got)
	}
	if _, ok := got["emailVerificationToken"]; ok {
		t.Error("empty token must not be written")
	}
}

func TestUpdateFields_PassesNilValues(t *testing.T) {
	var got wire.Record
	s := &mockStore{updateFn: func(_ context.Context, _, _ string, rec wire.Record) error {
		got = rec
		return nil
	}}

	err := New(s).UpdateFields(context.Background(), "u1", wire.Record{
		FieldEmailVerified:     true,
		FieldVerificationToken: nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Has(FieldVerificationToken) {
		t.Error("nil-valued key must reach the store")
	}
}

func TestDelete_Error(t *testing.T) {
	s := &mockStore{deleteFn: func(context.Context, string, string) error {
		return errors.New("boom")
	}}
	if err := New(s).Delete(context.Background(), "u1"); err == nil {
		t.Fatal("expected error")
	}
}
