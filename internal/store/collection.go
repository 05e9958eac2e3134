// Package store keeps per-screen collections of API resources in sync with
// the backend. Each screen owns its own Collection; nothing is shared across
// screens and nothing survives a screen switch.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Keyed is any resource with a server-assigned numeric id.
type Keyed interface {
	Key() int64
}

// ErrBusy reports a mutation attempted while another request for the same
// collection is still in flight. At most one outstanding mutation is
// reconciled at a time.
var ErrBusy = errors.New("another request is in flight")

// ErrClosed reports an operation on a collection whose screen was torn down.
var ErrClosed = errors.New("collection is closed")

// Collection is an ordered, deduplicated set of resources reconciled against
// server responses. Mutations go to the backend first; local state changes
// only when the server confirms, and the sort rule is re-applied after every
// change so iteration order is never stale.
type Collection[T Keyed] struct {
	mu      sync.Mutex
	less    func(a, b T) bool
	items   []T
	fetched bool
	pending bool
	closed  bool
}

// New builds an empty collection ordered by less.
func New[T Keyed](less func(a, b T) bool) *Collection[T] {
	return &Collection[T]{less: less}
}

// Items returns a copy of the collection in canonical order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return nil
	}
	dup := make([]T, len(c.items))
	copy(dup, c.items)
	return dup
}

// Len reports the number of resources held.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Fetched reports whether an initial FetchAll has succeeded.
func (c *Collection[T]) Fetched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetched
}

// Get returns the resource with the given id.
func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// FetchAll replaces the whole collection with the server's list. On any
// failure the previous contents are kept untouched.
func (c *Collection[T]) FetchAll(ctx context.Context, list func(context.Context) ([]T, error)) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	fetched, err := list(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.items = dedupe(fetched)
	c.fetched = true
	c.sortLocked()
	return nil
}

// Create runs do and inserts the server's representation of the new resource.
// The submitted payload is never inserted directly; only what the server
// returns enters the collection.
func (c *Collection[T]) Create(ctx context.Context, do func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := c.begin(); err != nil {
		return zero, err
	}
	defer c.end()

	created, err := do(ctx)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return created, nil
	}
	c.items = removeKey(c.items, created.Key())
	c.items = append(c.items, created)
	c.sortLocked()
	return created, nil
}

// Update runs do and replaces the entry matching id wholesale with the
// server's returned representation. No field-by-field merging: server-computed
// fields would drift otherwise.
func (c *Collection[T]) Update(ctx context.Context, id int64, do func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := c.begin(); err != nil {
		return zero, err
	}
	defer c.end()

	updated, err := do(ctx)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return updated, nil
	}
	c.items = removeKey(c.items, id)
	c.items = removeKey(c.items, updated.Key())
	c.items = append(c.items, updated)
	c.sortLocked()
	return updated, nil
}

// Remove runs do and drops the entry matching id. On failure the entry stays.
func (c *Collection[T]) Remove(ctx context.Context, id int64, do func(context.Context) error) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := do(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.items = removeKey(c.items, id)
	return nil
}

// Close discards the collection. Requests still in flight reconcile into
// nothing rather than mutating a collection no longer displayed.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.items = nil
	c.fetched = false
}

func (c *Collection[T]) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.pending {
		return ErrBusy
	}
	c.pending = true
	return nil
}

func (c *Collection[T]) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
}

// sortLocked re-applies the canonical order. Callers hold c.mu.
func (c *Collection[T]) sortLocked() {
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.less(c.items[i], c.items[j])
	})
}

func dedupe[T Keyed](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		if _, ok := seen[item.Key()]; ok {
			continue
		}
		seen[item.Key()] = struct{}{}
		out = append(out, item)
	}
	return out
}

func removeKey[T Keyed](items []T, id int64) []T {
	out := items[:0]
	for _, item := range items {
		if item.Key() != id {
			out = append(out, item)
		}
	}
	return out
}
