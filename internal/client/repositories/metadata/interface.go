// Package metadata is the key/value table backing the local credential store.
package metadata

import (
	"context"
)

// Repository stores string values by key. Get reports ok=false for a missing
// key; that is not an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}
