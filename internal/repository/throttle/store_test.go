package throttle

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockStore struct {
	counts    map[string]int64
	expires   []string
	nxFlags   []bool
	deleted   []string
	incrErr   error
	expireErr error
	delErr    error
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key] += val
	return m.counts[key], nil
}

func (m *mockStore) Expire(_ context.Context, key string, _ time.Duration, nx bool) error {
	m.expires = append(m.expires, key)
	m.nxFlags = append(m.nxFlags, nx)
	return m.expireErr
}

func (m *mockStore) Del(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.deleted = append(m.deleted, key)
	delete(m.counts, key)
	return nil
}

// --- Tests ---

func TestAllow_UpToLimit(t *testing.T) {
	m := &mockStore{}
	s := New(m, 2, time.Hour)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		got, err := s.Allow(ctx, "verify", "A@B.dz")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("call %d: Allow = %v, want %v", i, got, want)
		}
	}

	if m.counts["odhiyaty:throttle:verify:a@b.dz"] != 3 {
		t.Errorf("counts = %v", m.counts)
	}
	for _, nx := range m.nxFlags {
		if !nx {
			t.Error("expire must use NX")
		}
	}
}

func TestAllow_ScopesAreIndependent(t *testing.T) {
	s := New(&mockStore{}, 1, time.Hour)
	ctx := context.Background()

	if ok, _ := s.Allow(ctx, "verify", "a@b.dz"); !ok {
		t.Fatal("first verify send should pass")
	}
	if ok, _ := s.Allow(ctx, "reset", "a@b.dz"); !ok {
		t.Fatal("reset scope must not share the verify counter")
	}
}

func TestAllow_Errors(t *testing.T) {
	ctx := context.Background()

	s := New(&mockStore{incrErr: errors.New("conn refused")}, 1, time.Hour)
	if _, err := s.Allow(ctx, "verify", "a@b.dz"); err == nil {
		t.Error("expected INCRBY error")
	}

	s = New(&mockStore{expireErr: errors.New("conn refused")}, 1, time.Hour)
	if _, err := s.Allow(ctx, "verify", "a@b.dz"); err == nil {
		t.Error("expected EXPIRE error")
	}
}

func TestReset_ClearsCounter(t *testing.T) {
	m := &mockStore{}
	s := New(m, 1, time.Hour)
	ctx := context.Background()

	_, _ = s.Allow(ctx, "verify", "a@b.dz")
	if ok, _ := s.Allow(ctx, "verify", "a@b.dz"); ok {
		t.Fatal("second send should be refused")
	}
	if err := s.Reset(ctx, "verify", " A@B.dz "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := s.Allow(ctx, "verify", "a@b.dz"); !ok {
		t.Fatal("send after reset should pass")
	}
	if len(m.deleted) != 1 || m.deleted[0] != "odhiyaty:throttle:verify:a@b.dz" {
		t.Errorf("deleted = %v", m.deleted)
	}
}

func TestReset_Error(t *testing.T) {
	s := New(&mockStore{delErr: errors.New("conn refused")}, 1, time.Hour)
	if err := s.Reset(context.Background(), "verify", "a@b.dz"); err == nil {
		t.Fatal("expected DEL error")
	}
}
