// Package state provides the observable value box that client-side editing
// is built on. Values are replaced wholesale on every Set; subscribers are
// notified synchronously, in registration order, with the new value.
package state

import "sync"

// ObjectState holds one value of type T and publishes every replacement.
//
// Set is intended to be called from a single goroutine (the UI event loop).
// Reads are safe from any goroutine.
type ObjectState[T any] struct {
	mu      sync.RWMutex
	value   T
	updated bool
	subs    []subscription[T]
	nextID  int
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// New creates a container holding initial. Updated reports false until the
// first Set.
func New[T any](initial T) *ObjectState[T] {
	return &ObjectState[T]{value: initial}
}

// Value returns the current value.
func (s *ObjectState[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Updated reports whether Set has been called at least once. It never
// reverts to false.
func (s *ObjectState[T]) Updated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// Set replaces the held value and notifies every subscriber with it.
// There is no partial update path: callers build the full new value.
func (s *ObjectState[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.updated = true
	subs := make([]subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	// Notify outside the lock so subscribers may read or Set again.
	for _, sub := range subs {
		safeNotify(sub.fn, v)
	}
}

// Subscribe registers fn to be called after every Set. The returned func
// removes the subscription; calling it more than once is harmless.
func (s *ObjectState[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

// Subscribers returns the number of active subscriptions.
func (s *ObjectState[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *ObjectState[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// safeNotify calls fn with panic recovery. One subscriber failing shouldn't
// block the others.
func safeNotify[T any](fn func(T), v T) {
	defer func() {
		_ = recover()
	}()
	fn(v)
}
