// Package feed accumulates continuation-paged lists.
package feed

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrSkipped is returned when a load is already in flight
	ErrSkipped = errors.New("load already in progress")

	// ErrExhausted is returned when there is no next page
	ErrExhausted = errors.New("no more pages")
)

// Page is one fetched page and the token of the next one ("" when none)
type Page[T any] struct {
	Items []T
	Next  string
}

// FetchFunc loads the page for token; the empty token is the first page
type FetchFunc[T any] func(ctx context.Context, token string) (Page[T], error)

// Pager appends pages of T, dropping items whose key was already seen.
// Only one load runs at a time.
type Pager[T any] struct {
	fetch FetchFunc[T]
	key   func(T) string

	mu      sync.Mutex
	items   []T
	seen    map[string]struct{}
	next    string
	started bool
	loading bool
	gen     int
	err     error
}

// New creates a pager. key identifies items for de-duplication.
func New[T any](fetch FetchFunc[T], key func(T) string) *Pager[T] {
	return &Pager[T]{fetch: fetch, key: key, seen: make(map[string]struct{})}
}

// LoadMore fetches the next page and returns how many new items were
// appended
func (p *Pager[T]) LoadMore(ctx context.Context) (int, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return 0, ErrSkipped
	}
	if p.started && p.next == "" {
		p.mu.Unlock()
		return 0, ErrExhausted
	}
	p.loading = true
	token, gen := p.next, p.gen
	p.mu.Unlock()

	page, err := p.fetch(ctx, token)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// Reset while loading; the page belongs to the old list
		return 0, ErrSkipped
	}
	p.loading = false
	p.err = err
	if err != nil {
		return 0, err
	}
	p.started = true
	p.next = page.Next

	added := 0
	for _, item := range page.Items {
		k := p.key(item)
		if _, dup := p.seen[k]; dup {
			continue
		}
		p.seen[k] = struct{}{}
		p.items = append(p.items, item)
		added++
	}
	return added, nil
}

// Items returns a copy of the accumulated items
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

// Len returns the number of accumulated items
func (p *Pager[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// HasMore reports whether another page can be loaded
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.started || p.next != ""
}

// Loading reports whether a load is in flight
func (p *Pager[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the error of the last load, if any
func (p *Pager[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Reset discards accumulated items. A load in flight is abandoned.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.seen = make(map[string]struct{})
	p.next = ""
	p.started = false
	p.loading = false
	p.err = nil
	p.gen++
}
