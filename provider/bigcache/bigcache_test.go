package bigcache

import (
	"bytes"
	"context"
	"testing"
	"time"

	pr "github.com/unkn0wn-root/altsv/provider"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(context.Background(), Config{LifeWindow: time.Minute, Shards: 16, MaxEntriesInWindow: 100})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestProviderSetGetDel(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	if _, ok, err := p.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	line := []byte("a:1\tb:2")
	if ok, err := p.Set(ctx, "k", line, 1, 0); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, line) {
		t.Fatalf("Get: ok=%v err=%v got=%q", ok, err, got)
	}
	if p.Len() != 1 {
		t.Fatalf("Len=%d want 1", p.Len())
	}

	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del of missing key should succeed: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after Del")
	}
}

func TestProviderGetManyFallback(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	_, _ = p.Set(ctx, "a", []byte("x:1"), 1, 0)
	_, _ = p.Set(ctx, "c", []byte("x:3"), 1, 0)

	got, err := pr.GetMany(ctx, p, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "x:1" || string(got["c"]) != "x:3" {
		t.Fatalf("unexpected GetMany result: %q", got)
	}
}

func TestNewRejectsZeroLifeWindow(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for zero LifeWindow")
	}
}
