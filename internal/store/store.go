// Package store defines the persistence port used by the step state
// machine, with in-memory and Redis-backed implementations
package store

import "context"

// Storage is the key-value port the machine persists flow state through.
// Get reports whether a value was present; a missing key is not an error
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
