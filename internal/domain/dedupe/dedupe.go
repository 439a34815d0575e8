// Package dedupe tracks submitted analysis ids so each job runs at most once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 50000

// Deduper records seen analysis IDs.
type Deduper interface {
	// SeenAndRecord reports whether id was already seen and records it if not.
	// The check and the record happen atomically.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so it can be submitted again. It is used when a job
	// was marked seen but could not be enqueued.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps ids in insertion order. When bounded (maxSize > 0)
// the oldest id is evicted once the limit is reached.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.seen, oldest.Value.(string))
	}
	d.seen[id] = d.order.PushBack(id)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[id]; ok {
		d.order.Remove(el)
		delete(d.seen, id)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
