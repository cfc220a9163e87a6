package statemachine

import (
	"sync"
)

// StateFn represents a state function following Rob Pike's pattern: the
// states are the functions themselves, and each returns the next state
// function (or nil to terminate).
type StateFn[T any] func(*T) StateFn[T]

// Machine is a small, thread-safe state machine wrapper around an entity
// and its current state function.
type Machine[T any] struct {
	entity  *T
	stateFn StateFn[T]
	mutex   sync.RWMutex
}

// New creates a new state machine for the given entity.
func New[T any](entity *T, initial StateFn[T]) *Machine[T] {
	return &Machine[T]{
		entity:  entity,
		stateFn: initial,
	}
}

// Step executes the current state function once and stores the returned
// state. It reports whether the machine can still advance.
func (m *Machine[T]) Step() bool {
	m.mutex.RLock()
	current := m.stateFn
	m.mutex.RUnlock()

	if current == nil {
		return false
	}

	next := current(m.entity)

	m.mutex.Lock()
	m.stateFn = next
	m.mutex.Unlock()

	return next != nil
}

// SetState replaces the current state function without executing it.
func (m *Machine[T]) SetState(stateFn StateFn[T]) {
	m.mutex.Lock()
	m.stateFn = stateFn
	m.mutex.Unlock()
}

// Current returns the current state function.
func (m *Machine[T]) Current() StateFn[T] {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.stateFn
}
