package ports

import "context"

// ResultCache is a read-through cache for idempotent query results
// (isochrone maps, metadata). Implementations own their own TTL policy.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}
