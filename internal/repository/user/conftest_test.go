package user

import (
	"context"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore"
	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findOneFn func(ctx context.Context, collection, field, value string) (firestore.Document, bool)
	getFn     func(ctx context.Context, collection, id string) (firestore.Document, error)
	setFn     func(ctx context.Context, collection, id string, rec wire.Record) error
	updateFn  func(ctx context.Context, collection, id string, rec wire.Record) error
	deleteFn  func(ctx context.Context, collection, id string) error
}

func (m *mockStore) FindOne(ctx context.Context, collection, field, value string) (firestore.Document, bool) {
	if m.findOneFn != nil {
		return m.findOneFn(ctx, collection, field, value)
	}
	return firestore.Document{}, false
}

func (m *mockStore) Get(ctx context.Context, collection, id string) (firestore.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, collection, id)
	}
	return firestore.Document{}, firestore.ErrNotFound
}

func (m *mockStore) Set(ctx context.Context, collection, id string, rec wire.Record) error {
	if m.setFn != nil {
		return m.setFn(ctx, collection, id, rec)
	}
	return nil
}

func (m *mockStore) Update(ctx context.Context, collection, id string, rec wire.Record) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, collection, id, rec)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, collection, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, collection, id)
	}
	return nil
}
