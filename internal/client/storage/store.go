package storage

import "context"

// Store is a string key/value store with write-through semantics:
// every call is durable when it returns.
type Store interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	// DeleteIf removes key only while it still holds value and reports
	// whether it did.
	DeleteIf(ctx context.Context, key, value string) (bool, error)
	// DeleteMany removes all keys atomically.
	DeleteMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
