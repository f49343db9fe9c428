package ports

import "context"

// ResultCache stores encoded results of deterministic (seeded) requests.
type ResultCache interface {
	// Get returns the value stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
