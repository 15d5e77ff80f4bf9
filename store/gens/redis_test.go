package gens

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisGens(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	g := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "access", ttl)
	t.Cleanup(func() { _ = g.Close(context.Background()) })
	return g, mr
}

func TestRedisBumpAndSnapshot(t *testing.T) {
	ctx := context.Background()
	g, mr := newRedisGens(t, 0)

	for want := uint64(1); want <= 2; want++ {
		got, err := g.Bump(ctx, "single:access:a")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("Bump=%d want %d", got, want)
		}
	}
	if v, err := mr.Get("gen:access:single:access:a"); err != nil || v != "2" {
		t.Fatalf("stored gen=%q err=%v", v, err)
	}
	if ttl := mr.TTL("gen:access:single:access:a"); ttl != 0 {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	if g1, err := g.Snapshot(ctx, "single:access:a"); err != nil || g1 != 2 {
		t.Fatalf("Snapshot=%d err=%v", g1, err)
	}
	if g0, err := g.Snapshot(ctx, "single:access:missing"); err != nil || g0 != 0 {
		t.Fatalf("missing Snapshot=%d err=%v", g0, err)
	}
}

func TestRedisSnapshotMany(t *testing.T) {
	ctx := context.Background()
	g, _ := newRedisGens(t, 0)

	if _, err := g.Bump(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	got, err := g.SnapshotMany(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got["a"] != 0 || got["b"] != 1 || got["c"] != 0 {
		t.Fatalf("got=%v want a=0,b=1,c=0", got)
	}

	empty, err := g.SnapshotMany(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty=%v err=%v", empty, err)
	}
}

func TestRedisBumpRefreshesTTLAndExpiryResets(t *testing.T) {
	ctx := context.Background()
	g, mr := newRedisGens(t, time.Minute)

	if _, err := g.Bump(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(30 * time.Second)
	if got, err := g.Bump(ctx, "k"); err != nil || got != 2 {
		t.Fatalf("Bump=%d err=%v", got, err)
	}
	if ttl := mr.TTL("gen:access:k"); ttl != time.Minute {
		t.Fatalf("ttl=%v want 1m after bump", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if got, err := g.Snapshot(ctx, "k"); err != nil || got != 0 {
		t.Fatalf("expired gen=%d err=%v want 0", got, err)
	}
}

func TestRedisRejectsForeignValues(t *testing.T) {
	ctx := context.Background()
	g, mr := newRedisGens(t, 0)

	if err := mr.Set("gen:access:bad", "not-a-number"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Snapshot(ctx, "bad"); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := g.SnapshotMany(ctx, []string{"ok", "bad"}); err == nil {
		t.Fatalf("expected parse error from SnapshotMany")
	}
}

func TestRedisServerDownSurfacesErrors(t *testing.T) {
	ctx := context.Background()
	g, mr := newRedisGens(t, time.Minute)
	mr.Close()

	if _, err := g.Bump(ctx, "k"); err == nil {
		t.Fatalf("expected Bump error")
	}
	if _, err := g.SnapshotMany(ctx, []string{"k"}); err == nil {
		t.Fatalf("expected SnapshotMany error")
	}
}
