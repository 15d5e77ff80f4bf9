package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/unkn0wn-root/altsv"
	c "github.com/unkn0wn-root/altsv/codec"
	"github.com/unkn0wn-root/altsv/internal/util"
	"github.com/unkn0wn-root/altsv/internal/wire"
	pr "github.com/unkn0wn-root/altsv/provider"
	"github.com/unkn0wn-root/altsv/store/gens"
)

const defaultTTL = 10 * time.Minute

type store struct {
	ns             string
	provider       pr.Provider
	codec          c.Codec[altsv.Record]
	log            altsv.Logger
	hooks          Hooks
	gens           gens.Counter
	enabled        bool
	bulkEnabled    bool
	defaultTTL     time.Duration
	bulkTTL        time.Duration
	computeSetCost SetCostFunc
}

func newStore(opts Options) (*store, error) {
	if opts.Provider == nil {
		return nil, errors.New("altsv/store: provider is required")
	}
	if opts.Namespace == "" {
		return nil, errors.New("altsv/store: namespace is required")
	}

	s := &store{
		ns:          opts.Namespace,
		provider:    opts.Provider,
		enabled:     !opts.Disabled,
		bulkEnabled: !opts.DisableBulk,
	}

	// defaults
	s.codec = util.Coalesce[c.Codec[altsv.Record]](opts.Codec, c.ALTSV{})
	s.log = util.Coalesce[altsv.Logger](opts.Logger, altsv.NopLogger{})
	s.hooks = util.Coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.Generations != nil {
		s.gens = opts.Generations
	} else {
		s.gens = gens.NewLocal(0, 0)
	}
	s.defaultTTL = util.Coalesce(opts.DefaultTTL, defaultTTL)
	s.bulkTTL = util.Coalesce(opts.BulkTTL, defaultTTL)

	if opts.ComputeSetCost != nil {
		s.computeSetCost = opts.ComputeSetCost
	} else {
		s.computeSetCost = func(_ string, raw []byte, _ bool, _ int) int64 { return int64(len(raw)) }
	}

	return s, nil
}

func (s *store) Enabled() bool { return s.enabled }

func (s *store) Close(ctx context.Context) error {
	return errors.Join(s.gens.Close(ctx), s.provider.Close(ctx))
}

func (s *store) Get(ctx context.Context, key string) (altsv.Record, bool, error) {
	if !s.enabled {
		return nil, false, nil
	}
	k := s.singleKey(key)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return nil, false, err
	}
	rec, reason := s.decodeSingle(raw)
	if reason != "" {
		_ = s.provider.Del(ctx, k) // self-heal
		s.hooks.SelfHealSingle(k, reason)
		s.log.Debug("dropped unreadable entry", altsv.Fields{"key": key, "reason": reason})
		return nil, false, nil
	}
	return rec, true, nil
}

// decodeSingle returns a non-empty reason when raw cannot be used.
func (s *store) decodeSingle(raw []byte) (altsv.Record, string) {
	payload, err := wire.DecodeSingle(raw)
	if err != nil {
		return nil, "corrupt"
	}
	rec, err := s.codec.Decode(payload)
	if err != nil {
		return nil, "value_decode"
	}
	return rec, ""
}

func (s *store) Set(ctx context.Context, key string, rec altsv.Record, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	payload, err := s.codec.Encode(rec)
	if err != nil {
		return fmt.Errorf("altsv/store: encode %q: %w", key, err)
	}
	k := s.singleKey(key)
	wireb := wire.EncodeSingle(payload)
	ok, err := s.provider.Set(ctx, k, wireb, s.computeSetCost(k, wireb, false, 1), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.hooks.ProviderSetRejected(k, false)
		s.log.Debug("Set rejected by provider (pressure)", altsv.Fields{"key": key})
	}
	return s.bump(ctx, k)
}

func (s *store) Del(ctx context.Context, key string) error {
	if !s.enabled {
		return nil
	}
	k := s.singleKey(key)
	if err := s.provider.Del(ctx, k); err != nil {
		return err
	}
	return s.bump(ctx, k)
}

// bump invalidates every bulk entry that holds storageKey.
func (s *store) bump(ctx context.Context, storageKey string) error {
	if _, err := s.gens.Bump(ctx, storageKey); err != nil {
		return fmt.Errorf("altsv/store: bump %q: %w", storageKey, err)
	}
	return nil
}

func (s *store) GetBulk(ctx context.Context, keys []string) (map[string]altsv.Record, []string, error) {
	out := make(map[string]altsv.Record, len(keys))
	if !s.enabled {
		missing := make([]string, 0, len(keys))
		missing = append(missing, keys...)
		return out, missing, nil
	}
	if len(keys) == 0 {
		return out, nil, nil
	}

	storage := make([]string, len(keys))
	for i, k := range keys {
		storage[i] = s.singleKey(k)
	}

	if s.bulkEnabled {
		bk := util.BulkKey("bulk:"+s.ns, keys)
		if raw, ok, err := s.provider.Get(ctx, bk); err == nil && ok {
			byKey, reason := s.decodeBulk(ctx, raw, keys)
			if reason == "" {
				for _, k := range keys {
					out[k] = byKey[k]
				}
				return out, nil, nil
			}
			// stale or corrupt bulk; drop
			_ = s.provider.Del(ctx, bk)
			s.hooks.BulkRejected(s.ns, len(keys), reason)
			s.log.Debug("bulk entry rejected", altsv.Fields{"bulkKey": bk, "reason": reason})
		}
	}

	// Fallback: singles
	raws, err := pr.GetMany(ctx, s.provider, storage)
	if err != nil {
		return nil, nil, err
	}
	var missing []string
	for i, k := range keys {
		raw, ok := raws[storage[i]]
		if !ok {
			missing = append(missing, k)
			continue
		}
		rec, reason := s.decodeSingle(raw)
		if reason != "" {
			_ = s.provider.Del(ctx, storage[i])
			s.hooks.SelfHealSingle(storage[i], reason)
			missing = append(missing, k)
			continue
		}
		out[k] = rec
	}
	return out, missing, nil
}

// decodeBulk requires every requested key to be present in the entry at
// its current generation.
func (s *store) decodeBulk(ctx context.Context, raw []byte, keys []string) (map[string]altsv.Record, string) {
	items, err := wire.DecodeBulk(raw)
	if err != nil {
		return nil, "corrupt"
	}
	byKey := make(map[string]altsv.Record, len(items))
	gensAt := make(map[string]uint64, len(items))
	for _, it := range items {
		rec, err := s.codec.Decode(it.Payload)
		if err != nil {
			return nil, "decode_error"
		}
		byKey[it.Key] = rec
		gensAt[it.Key] = it.Gen
	}
	storage := make([]string, len(keys))
	for i, k := range keys {
		if _, ok := byKey[k]; !ok {
			return nil, "incomplete"
		}
		storage[i] = s.singleKey(k)
	}
	current, err := s.gens.SnapshotMany(ctx, storage)
	if err != nil {
		return nil, "stale"
	}
	for i, k := range keys {
		if current[storage[i]] != gensAt[k] {
			return nil, "stale"
		}
	}
	return byKey, ""
}

func (s *store) SetBulk(ctx context.Context, items map[string]altsv.Record, ttl time.Duration) error {
	if !s.enabled || len(items) == 0 {
		return nil
	}

	// encode all (deterministic key order)
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	storage := make([]string, len(keys))
	for i, k := range keys {
		storage[i] = s.singleKey(k)
	}
	// every member moves, so older bulk entries holding it go stale; the
	// snapshot is taken before encoding so a concurrent Set does too
	for _, k := range storage {
		if err := s.bump(ctx, k); err != nil {
			return err
		}
	}
	snap, err := s.gens.SnapshotMany(ctx, storage)
	if err != nil {
		return fmt.Errorf("altsv/store: snapshot: %w", err)
	}

	wireItems := make([]wire.BulkItem, 0, len(items))
	for i, k := range keys {
		payload, err := s.codec.Encode(items[k])
		if err != nil {
			return fmt.Errorf("altsv/store: encode %q: %w", k, err)
		}
		wireItems = append(wireItems, wire.BulkItem{Key: k, Gen: snap[storage[i]], Payload: payload})
	}

	if s.bulkEnabled {
		if ttl == 0 {
			ttl = s.bulkTTL
		}
		wireb, err := wire.EncodeBulk(wireItems)
		if err != nil {
			return err
		}
		bk := util.BulkKeySorted("bulk:"+s.ns, keys)
		ok, err := s.provider.Set(ctx, bk, wireb, s.computeSetCost(bk, wireb, true, len(items)), ttl)
		if err != nil {
			return err
		}
		if !ok {
			s.hooks.ProviderSetRejected(bk, true)
			s.log.Debug("bulk Set rejected; seeding singles", altsv.Fields{"bulkKey": bk})
		}
	}

	// seed singles best-effort; members were bumped above
	for i, it := range wireItems {
		k := storage[i]
		wireb := wire.EncodeSingle(it.Payload)
		if ok, err := s.provider.Set(ctx, k, wireb, s.computeSetCost(k, wireb, false, 1), s.defaultTTL); err == nil && !ok {
			s.hooks.ProviderSetRejected(k, false)
		}
	}
	return nil
}

func (s *store) singleKey(userKey string) string {
	// isolate by namespace
	return "single:" + s.ns + ":" + userKey
}
