// Package system exposes operating system appearance settings as media
// queries the client can read and subscribe to.
package system

import (
	"sort"
	"sync"
)

const (
	QueryReducedMotion = "(prefers-reduced-motion: reduce)"
	QueryDarkScheme    = "(prefers-color-scheme: dark)"
)

// MediaQuery is a boolean OS setting that can change at any time.
type MediaQuery interface {
	Matches() bool
	// Subscribe calls fn with the new value on every change. The returned
	// function detaches fn and may be called more than once.
	Subscribe(fn func(matches bool)) (unsubscribe func())
}

// Environment resolves media queries by name. Unknown names resolve to a
// query that never matches.
type Environment interface {
	Query(name string) MediaQuery
}

// Signal is a settable MediaQuery.
type Signal struct {
	mu        sync.Mutex
	matches   bool
	listeners map[uint64]func(bool)
	nextID    uint64
}

func NewSignal(matches bool) *Signal {
	return &Signal{matches: matches, listeners: make(map[uint64]func(bool))}
}

func (s *Signal) Matches() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches
}

func (s *Signal) Subscribe(fn func(bool)) func() {
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

// Set changes the value and notifies subscribers, in subscription order,
// if it differs from the current one.
func (s *Signal) Set(matches bool) {
	s.mu.Lock()
	if s.matches == matches {
		s.mu.Unlock()
		return
	}
	s.matches = matches

	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(bool), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(matches)
	}
}

// Listeners is the number of attached subscribers.
func (s *Signal) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// StaticEnvironment is an in-memory Environment whose queries are set by
// hand. It serves headless runs and tests.
type StaticEnvironment struct {
	mu      sync.Mutex
	signals map[string]*Signal
}

func NewStaticEnvironment() *StaticEnvironment {
	return &StaticEnvironment{signals: make(map[string]*Signal)}
}

func (e *StaticEnvironment) Query(name string) MediaQuery {
	return e.Signal(name)
}

// Signal returns the signal behind name, creating it unmatched.
func (e *StaticEnvironment) Signal(name string) *Signal {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.signals[name]
	if !ok {
		s = NewSignal(false)
		e.signals[name] = s
	}
	return s
}

func (e *StaticEnvironment) Set(name string, matches bool) {
	e.Signal(name).Set(matches)
}
