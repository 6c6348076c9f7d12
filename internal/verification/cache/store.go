// Package cache stores verification results keyed by tax identifier. Both
// positive and negative outcomes are cached so a definitively-not-found
// identifier does not trigger repeated upstream calls within the TTL window.
package cache

import (
	"context"

	"fnsgate/internal/verification/inn"
	"fnsgate/internal/verification/models"
)

// Store is the verification cache. Implementations return
// sentinel.ErrNotFound when a key was never inserted or has expired.
// Cache contents are a performance optimization, never a correctness
// dependency; losing them on restart is fine.
type Store interface {
	Get(ctx context.Context, key inn.INN) (models.Result, error)
	Put(ctx context.Context, key inn.INN, result models.Result) error
}
