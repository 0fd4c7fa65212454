package dashboard

import (
	"context"
	"slices"
	"sync"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
)

// Keyed is implemented by every record the dashboard lists.
type Keyed interface {
	Key() string
}

// Predicate reports whether item matches the (lowercased, trimmed, non-empty) query.
type Predicate[T any] func(item T, query string) bool

// View is a consistent read of a collection.
type View[T any] struct {
	Items  []T
	Query  string
	Loaded bool
	Error  string
}

// Collection owns the canonical list fetched from the remote service and the
// filtered list derived from it. Both slices are replaced wholesale on every
// change and handed out as copies.
type Collection[T Keyed] struct {
	mu        sync.RWMutex
	canonical []T
	filtered  []T
	query     string
	match     Predicate[T]
	loaded    bool
	loadErr   error
}

func NewCollection[T Keyed](match Predicate[T]) *Collection[T] {
	return &Collection[T]{
		canonical: []T{},
		filtered:  []T{},
		match:     match,
	}
}

// Load replaces both collections with the result of fetch. On failure both
// collections are left empty and the error is kept for View.
func (c *Collection[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = true
	if err != nil {
		c.canonical = []T{}
		c.filtered = []T{}
		c.loadErr = err
		return err
	}

	c.canonical = slices.Clone(items)
	c.loadErr = nil
	c.refilter()

	return nil
}

// ApplyQuery commits query and recomputes the filtered collection from the
// current canonical collection.
func (c *Collection[T]) ApplyQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = query
	c.refilter()
}

// ReplaceByID swaps the record with the given id for fn(record) in both collections.
func (c *Collection[T]) ReplaceByID(id string, fn func(T) T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, false
	}

	next := slices.Clone(c.canonical)
	next[idx] = fn(next[idx])
	c.canonical = next
	c.refilter()

	return next[idx], true
}

// RemoveByID drops the record with the given id from both collections.
func (c *Collection[T]) RemoveByID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}

	c.canonical = slices.Delete(slices.Clone(c.canonical), idx, idx+1)
	c.refilter()

	return true
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return c.canonical[idx], true
}

func (c *Collection[T]) Canonical() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.canonical)
}

func (c *Collection[T]) Filtered() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.filtered)
}

func (c *Collection[T]) View() View[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v := View[T]{
		Items:  slices.Clone(c.filtered),
		Query:  c.query,
		Loaded: c.loaded,
	}
	if c.loadErr != nil {
		v.Error = apperr.Message(c.loadErr)
	}
	return v
}

// indexOf must be called with c.mu held.
func (c *Collection[T]) indexOf(id string) int {
	return slices.IndexFunc(c.canonical, func(item T) bool {
		return item.Key() == id
	})
}

// refilter must be called with c.mu held.
func (c *Collection[T]) refilter() {
	q := normalizeQuery(c.query)
	if q == "" {
		c.filtered = slices.Clone(c.canonical)
		return
	}

	filtered := make([]T, 0, len(c.canonical))
	for _, item := range c.canonical {
		if c.match(item, q) {
			filtered = append(filtered, item)
		}
	}
	c.filtered = filtered
}
