// Package sloghooks reports store.Hooks events through log/slog.
//
// Every event carries the store namespace, read back from the storage key
// ("single:<ns>:<key>", "bulk:<ns>:<hash>"). A "value_decode" self-heal
// (frame intact, record unreadable by the configured codec) logs at Warn;
// damaged frames log at Debug.
package sloghooks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/unkn0wn-root/altsv/store"
)

// Options controls sampling and key redaction. An Every value of 0 or 1
// logs each event; n logs one in n.
type Options struct {
	SelfHealEvery   uint64
	BulkRejectEvery uint64
	SetRejectEvery  uint64

	// Redact replaces the record key before logging. Default: first 8 bytes
	// of its SHA-256, hex encoded.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHeal   counter
	bulkReject counter
	setReject  counter
}

var _ store.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	h := &Hooks{l: l, opts: opts}
	h.selfHeal.every = opts.SelfHealEvery
	h.bulkReject.every = opts.BulkRejectEvery
	h.setReject.every = opts.SetRejectEvery
	return h
}

type counter struct {
	every uint64
	n     atomic.Uint64
}

func (c *counter) take() bool {
	if c.every <= 1 {
		return true
	}
	return c.n.Add(1)%c.every == 0
}

// splitKey breaks a storage key into kind, namespace and the rest. Keys
// that do not look like store keys come back as kind "" and rest k.
func splitKey(k string) (kind, ns, rest string) {
	parts := strings.SplitN(k, ":", 3)
	if len(parts) != 3 || (parts[0] != "single" && parts[0] != "bulk") {
		return "", "", k
	}
	return parts[0], parts[1], parts[2]
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func (h *Hooks) SelfHealSingle(storageKey, reason string) {
	if h.l == nil || !h.selfHeal.take() {
		return
	}
	_, ns, key := splitKey(storageKey)
	level := slog.LevelDebug
	if reason == "value_decode" {
		level = slog.LevelWarn
	}
	h.l.Log(context.Background(), level, "altsv.store.self_heal",
		"ns", ns,
		"key", h.redact(key),
		"reason", reason)
}

// BulkRejected logs "stale" at Debug and every other reason at Info.
func (h *Hooks) BulkRejected(ns string, requested int, reason string) {
	if h.l == nil || !h.bulkReject.take() {
		return
	}
	level := slog.LevelInfo
	if reason == "stale" {
		level = slog.LevelDebug
	}
	h.l.Log(context.Background(), level, "altsv.store.bulk_rejected",
		"ns", ns,
		"requested", requested,
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string, isBulk bool) {
	if h.l == nil || !h.setReject.take() {
		return
	}
	kind, ns, rest := splitKey(storageKey)
	attrs := []any{"ns", ns, "is_bulk", isBulk}
	if kind == "bulk" {
		// already a hash of the member set
		attrs = append(attrs, "bulk", rest)
	} else {
		attrs = append(attrs, "key", h.redact(rest))
	}
	h.l.Warn("altsv.store.provider_set_rejected", attrs...)
}
