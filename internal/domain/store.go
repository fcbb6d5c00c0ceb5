package domain

import "context"

// KV is the local key/value persistence used for settings and resume
// positions. Implementations: bolt, sqlite, memory.
type KV interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// List returns every key/value pair whose key starts with prefix
	List(ctx context.Context, prefix string) (map[string]string, error)

	Close() error
}
