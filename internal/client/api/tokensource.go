package api

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/biztoolkit/internal/client/storage"
)

// StoreTokenSource reads the token straight from the persistent store, so
// the transport always sees what the session container last persisted.
type StoreTokenSource struct {
	store storage.Store
}

func NewStoreTokenSource(s storage.Store) *StoreTokenSource {
	return &StoreTokenSource{store: s}
}

func (t *StoreTokenSource) Token(ctx context.Context) (string, error) {
	v, err := t.store.Get(ctx, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (t *StoreTokenSource) ClearToken(ctx context.Context, token string) (bool, error) {
	return t.store.DeleteIf(ctx, storage.KeyToken, token)
}
