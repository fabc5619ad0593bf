// Package state provides a reducer-shaped container: a current snapshot,
// a pure reducer producing the next complete snapshot for every action,
// and change listeners.
package state

import (
	"sort"
	"sync"
)

// Reducer is a total function from (current state, action) to the next
// complete state. It must not have side effects.
type Reducer[S, A any] func(S, A) S

// Store holds the current snapshot of S and applies actions of type A.
// It is safe for concurrent use.
type Store[S, A any] struct {
	mu        sync.RWMutex
	state     S
	reduce    Reducer[S, A]
	listeners map[uint64]func(S)
	nextID    uint64
}

func New[S, A any](initial S, reduce Reducer[S, A]) *Store[S, A] {
	return &Store[S, A]{
		state:     initial,
		reduce:    reduce,
		listeners: make(map[uint64]func(S)),
	}
}

// State returns the current snapshot.
func (s *Store[S, A]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a and notifies listeners with the new snapshot.
// Listeners run on the dispatching goroutine after the lock is released,
// in subscription order. They must not dispatch on the same store.
func (s *Store[S, A]) Dispatch(a A) S {
	s.mu.Lock()
	next := s.reduce(s.state, a)
	s.state = next
	fns := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	return next
}

// Subscribe registers fn for every subsequent snapshot. The returned
// function removes it and may be called more than once.
func (s *Store[S, A]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store[S, A]) snapshotListeners() []func(S) {
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fns := make([]func(S), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	return fns
}
