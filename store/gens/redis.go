package gens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares generations between processes. With a TTL, idle generation
// keys expire and read back as 0, which makes older bulk entries stale.
type Redis struct {
	rdb redis.UniversalClient
	ns  string
	ttl time.Duration
}

var _ Counter = (*Redis)(nil)

// NewRedis stores generations under "gen:<namespace>:<key>". ttl <= 0
// keeps them forever.
func NewRedis(client redis.UniversalClient, namespace string, ttl time.Duration) *Redis {
	return &Redis{rdb: client, ns: namespace, ttl: ttl}
}

func (r *Redis) key(k string) string { return "gen:" + r.ns + ":" + k }

func (r *Redis) Snapshot(ctx context.Context, key string) (uint64, error) {
	s, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("altsv/gens: get %q: %w", key, err)
	}
	return parseGen(key, s)
}

func (r *Redis) SnapshotMany(ctx context.Context, keys []string) (map[string]uint64, error) {
	out := make(map[string]uint64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	vals, err := r.rdb.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("altsv/gens: mget: %w", err)
	}
	for i, v := range vals {
		if v == nil {
			out[keys[i]] = 0
			continue
		}
		g, err := parseGen(keys[i], fmt.Sprint(v))
		if err != nil {
			return nil, err
		}
		out[keys[i]] = g
	}
	return out, nil
}

// Bump runs INCR, pipelined with EXPIRE when a TTL is set.
func (r *Redis) Bump(ctx context.Context, key string) (uint64, error) {
	k := r.key(key)
	if r.ttl <= 0 {
		v, err := r.rdb.Incr(ctx, k).Result()
		if err != nil {
			return 0, fmt.Errorf("altsv/gens: incr %q: %w", key, err)
		}
		return uint64(v), nil
	}
	var incr *redis.IntCmd
	if _, err := r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, r.ttl)
		return nil
	}); err != nil {
		return 0, fmt.Errorf("altsv/gens: incr %q: %w", key, err)
	}
	return uint64(incr.Val()), nil
}

// Cleanup is a no-op; Redis expires keys itself when a TTL is set.
func (r *Redis) Cleanup(time.Duration) {}

func (r *Redis) Close(context.Context) error { return r.rdb.Close() }

func parseGen(key, s string) (uint64, error) {
	g, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("altsv/gens: bad generation at %q: %w", key, err)
	}
	return g, nil
}
