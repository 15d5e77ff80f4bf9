package gens

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	gen     uint64
	touched time.Time
}

// Local keeps generations in process memory. They are lost on restart, so
// bulk entries in a shared provider should use Redis instead.
type Local struct {
	mu        sync.RWMutex
	m         map[string]entry
	retention time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

var _ Counter = (*Local)(nil)

// NewLocal returns an in-memory Counter. When both sweep and retention are
// positive, a goroutine prunes idle keys every sweep interval until Close.
func NewLocal(sweep, retention time.Duration) *Local {
	l := &Local{m: make(map[string]entry), retention: retention}
	if sweep <= 0 || retention <= 0 {
		return l
	}
	l.stop = make(chan struct{})
	t := time.NewTicker(sweep)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer t.Stop()
		for {
			select {
			case <-t.C:
				l.Cleanup(l.retention)
			case <-l.stop:
				return
			}
		}
	}()
	return l
}

func (l *Local) Snapshot(_ context.Context, key string) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.m[key].gen, nil
}

func (l *Local) SnapshotMany(_ context.Context, keys []string) (map[string]uint64, error) {
	out := make(map[string]uint64, len(keys))
	l.mu.RLock()
	for _, k := range keys {
		out[k] = l.m[k].gen
	}
	l.mu.RUnlock()
	return out, nil
}

func (l *Local) Bump(_ context.Context, key string) (uint64, error) {
	now := time.Now()
	l.mu.Lock()
	e := l.m[key]
	e.gen++
	e.touched = now
	l.m[key] = e
	l.mu.Unlock()
	return e.gen, nil
}

func (l *Local) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)
	l.mu.Lock()
	for k, e := range l.m {
		if e.touched.Before(cutoff) {
			delete(l.m, k)
		}
	}
	l.mu.Unlock()
}

// Len returns the number of tracked keys.
func (l *Local) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.m)
}

func (l *Local) Close(context.Context) error {
	l.once.Do(func() {
		if l.stop != nil {
			close(l.stop)
			l.wg.Wait()
		}
	})
	return nil
}
