// Package dedupe remembers idempotency keys so a retried insert is not
// applied twice.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// DefaultMaxKeys bounds an in-memory deduper created without WithMaxKeys.
const DefaultMaxKeys = 10000

// State is what a deduper knows about a key.
type State int

// Key states returned by Acquire.
const (
	// New means the caller now owns the key and must Commit or Unrecord it.
	New State = iota
	// Pending means another caller owns the key and has not finished.
	Pending
	// Done means the work guarded by the key was committed.
	Done
)

// Deduper tracks idempotency keys through acquire, then commit or release.
type Deduper interface {
	// Acquire records key as pending if it is unknown and reports the
	// state it had. The check and the write are atomic.
	Acquire(ctx context.Context, key string) State

	// Commit marks a pending key done.
	Commit(ctx context.Context, key string)

	// Unrecord forgets key so the request it guarded can be retried.
	Unrecord(ctx context.Context, key string)

	Size() int
}

type entry struct {
	key  string
	done bool
}

type inMemory struct {
	mu      sync.Mutex
	maxKeys int
	order   *list.List // oldest at the front
	seen    map[string]*list.Element
}

// NewInMemory returns a Deduper that keeps at most DefaultMaxKeys keys,
// evicting the oldest committed key first. A non-positive WithMaxKeys makes
// it unbounded.
func NewInMemory(opts ...Option) Deduper {
	d := &inMemory{
		maxKeys: DefaultMaxKeys,
		order:   list.New(),
		seen:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemory) Acquire(_ context.Context, key string) State {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.seen[key]; ok {
		if e.Value.(*entry).done {
			return Done
		}
		return Pending
	}
	if d.maxKeys > 0 && d.order.Len() >= d.maxKeys {
		d.evict()
	}
	d.seen[key] = d.order.PushBack(&entry{key: key})
	return New
}

// evict drops the oldest done key. Pending keys are never evicted, so the
// set may exceed maxKeys while that many requests are in flight.
func (d *inMemory) evict() {
	for e := d.order.Front(); e != nil; e = e.Next() {
		if en := e.Value.(*entry); en.done {
			d.order.Remove(e)
			delete(d.seen, en.key)
			return
		}
	}
}

func (d *inMemory) Commit(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.seen[key]; ok {
		e.Value.(*entry).done = true
	}
}

func (d *inMemory) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.seen[key]; ok {
		d.order.Remove(e)
		delete(d.seen, key)
	}
}

func (d *inMemory) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.order.Len()
}
