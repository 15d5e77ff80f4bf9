package store

import (
	"context"
	"time"

	"github.com/unkn0wn-root/altsv"
	c "github.com/unkn0wn-root/altsv/codec"
	pr "github.com/unkn0wn-root/altsv/provider"
	"github.com/unkn0wn-root/altsv/store/gens"
)

type SetCostFunc func(key string, raw []byte, isBulk bool, bulkCount int) int64

// Store keeps altsv Records under string keys in a Provider.
type Store interface {
	Enabled() bool
	Close(context.Context) error

	// Single
	Get(ctx context.Context, key string) (rec altsv.Record, ok bool, err error)
	Set(ctx context.Context, key string, rec altsv.Record, ttl time.Duration) error
	Del(ctx context.Context, key string) error

	// Bulk (order-agnostic return; use your own ordering by keys slice).
	// A bulk entry is a snapshot of its members taken at SetBulk time. Set
	// or Del on any member makes it stale and GetBulk falls back to singles.
	GetBulk(ctx context.Context, keys []string) (recs map[string]altsv.Record, missing []string, err error)
	SetBulk(ctx context.Context, items map[string]altsv.Record, ttl time.Duration) error
}

// Options tune the Store. Only Namespace and Provider are required; others
// have sensible defaults.
type Options struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "access", "audit"
	Provider  pr.Provider

	// codec.ALTSV turns a present "" into Absent and trims trailing
	// whitespace of the last value; set codec.JSON or codec.Msgpack for
	// exact round trips.
	Codec          c.Codec[altsv.Record] // nil => codec.ALTSV (one line per record)
	Logger         altsv.Logger          // nil => NopLogger
	Hooks          Hooks                 // nil => NopHooks
	Generations    gens.Counter          // nil => in-process gens.Local
	DefaultTTL     time.Duration         // singles; 0 => 10m
	BulkTTL        time.Duration         // bulks; 0 => 10m
	Disabled       bool                  // default false (enabled)
	DisableBulk    bool                  // default false => bulk enabled
	ComputeSetCost SetCostFunc           // default: encoded size in bytes
}

func New(opts Options) (Store, error) {
	return newStore(opts)
}
