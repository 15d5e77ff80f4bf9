// Package gens tracks per-key write generations. The store bumps a key's
// generation on every Set and Del, and bulk entries remember the generation
// each member was written at, so a bulk read can tell when a member changed
// after the entry was built.
package gens

import (
	"context"
	"time"
)

// Counter stores generations. Unknown keys are at generation 0.
type Counter interface {
	Snapshot(ctx context.Context, key string) (uint64, error)
	SnapshotMany(ctx context.Context, keys []string) (map[string]uint64, error)
	// Bump increments and returns the new generation of key.
	Bump(ctx context.Context, key string) (uint64, error)
	// Cleanup forgets keys untouched for longer than retention, where
	// the backend keeps them itself.
	Cleanup(retention time.Duration)
	Close(ctx context.Context) error
}
