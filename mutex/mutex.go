// Package mutex provides the fail-fast reentrancy guard used by goGuard
// managed components.
//
// Unlike sync.Mutex, acquisition never blocks: a second acquisition while the
// lock is held fails immediately with [ErrLocked]. The guard exists to detect
// reentrant call chains, not to serialize them — a call that trips the guard
// is a bug in the caller's composition, and the whole chain is expected to
// unwind.
//
// Guarded functions must not call other guarded functions of the same
// instance; shared logic belongs in unguarded helpers invoked by a single
// guarded entry point.
package mutex

import (
	"errors"
	"sync/atomic"
)

// ErrLocked is returned when a guarded call finds the mutex already held.
var ErrLocked = errors.New("reentrant call rejected: locked")

// Both states are non-zero so the zero value is distinguishable from an
// initialized, unlocked mutex. A zero-value Mutex rejects every acquisition.
const (
	stateUnlocked uint32 = 1
	stateLocked   uint32 = 2
)

// Mutex is a non-blocking reentrancy guard. Use [New]; the zero value fails
// closed.
type Mutex struct {
	state atomic.Uint32
}

// New returns an unlocked mutex.
func New() *Mutex {
	m := &Mutex{}
	m.state.Store(stateUnlocked)
	return m
}

// Acquire takes the lock, failing with [ErrLocked] if it is already held.
func (m *Mutex) Acquire() error {
	if !m.state.CompareAndSwap(stateUnlocked, stateLocked) {
		return ErrLocked
	}
	return nil
}

// Release unconditionally returns the mutex to the unlocked state.
func (m *Mutex) Release() {
	m.state.Store(stateUnlocked)
}

// AssertUnlocked fails with [ErrLocked] if the lock is currently held. It is
// the read-side guard: no state transition happens.
func (m *Mutex) AssertUnlocked() error {
	if m.state.Load() != stateUnlocked {
		return ErrLocked
	}
	return nil
}

// Guard runs fn while holding the lock. Release is guaranteed on every exit
// path, including a panic inside fn — there is no transactional substrate
// here to roll the state back, so the deferred release is load-bearing.
func (m *Mutex) Guard(fn func() error) error {
	if err := m.Acquire(); err != nil {
		return err
	}
	defer m.Release()
	return fn()
}

// ReadGuard runs fn if the lock is not held. The lock state is not changed,
// so nested ReadGuard calls are permitted; a ReadGuard inside a Guard of the
// same instance fails with [ErrLocked], which is what blocks read-only
// reentrancy.
func (m *Mutex) ReadGuard(fn func() error) error {
	if err := m.AssertUnlocked(); err != nil {
		return err
	}
	return fn()
}
