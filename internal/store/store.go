// Package store provides the entity state containers backing each domain
// service: a list, a current item, a loading flag and an error string, mutated
// only through the defined operations. Replacement is atomic per field; the
// canonical refresh after any write is a full-list refetch, never a per-item
// patch, so stale denormalized fields cannot linger.
package store

import "sync"

// Slice is one typed state container.
type Slice[T any] struct {
	mu      sync.RWMutex
	items   []T
	current *T
	loading bool
	err     string
}

func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{}
}

// SetList replaces the whole list and clears loading and error.
func (s *Slice[T]) SetList(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.loading = false
	s.err = ""
}

// SetCurrent replaces the current item (nil clears it) and clears loading
// and error.
func (s *Slice[T]) SetCurrent(item *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = item
	s.loading = false
	s.err = ""
}

func (s *Slice[T]) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetError records a failure message and clears loading. The list and
// current item keep their previous values.
func (s *Slice[T]) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
	s.loading = false
}

// Snapshot is a point-in-time copy of the container state.
type Snapshot[T any] struct {
	Items   []T
	Current *T
	Loading bool
	Err     string
}

func (s *Slice[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	var current *T
	if s.current != nil {
		c := *s.current
		current = &c
	}
	return Snapshot[T]{Items: items, Current: current, Loading: s.loading, Err: s.err}
}
