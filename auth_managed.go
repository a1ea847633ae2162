package goGuard

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goGuard/mutex"
)

// AuthManaged is the consumer side of role-based authorization: a component
// that defers every protected entry point to its configured [Authority].
// Embed it, or hold it and route entry points through [AuthManaged.Entry].
type AuthManaged struct {
	self common.Address

	mu        sync.RWMutex
	authority Authority
	locks     map[Selector]*mutex.Mutex

	metrics *Metrics
	events  *eventDispatcher
}

// NewAuthManaged wires a managed component to its initial authority. A nil
// authority is legal and denies everything until a hand-off installs one.
func NewAuthManaged(self common.Address, authority Authority) *AuthManaged {
	return &AuthManaged{
		self:      self,
		authority: authority,
	}
}

// Addr returns the managed component's address.
func (a *AuthManaged) Addr() common.Address {
	return a.self
}

// Authority returns the currently installed authority, nil if none.
func (a *AuthManaged) Authority() Authority {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authority
}

// SetAuthority installs a new authority. Only the current authority may
// call this; with no authority installed nobody can, which makes the
// component permanently self-governed once its authority is renounced.
func (a *AuthManaged) SetAuthority(caller common.Address, next Authority) error {
	a.mu.Lock()
	if a.authority == nil || caller != a.authority.Addr() {
		a.mu.Unlock()
		return ErrUnauthorized
	}
	a.authority = next
	a.mu.Unlock()

	// Emit outside the lock; a backed-up sink must not stall Authorize.
	addr := common.Address{}
	if next != nil {
		addr = next.Addr()
	}
	a.events.Emit(context.Background(), Event{
		Type:      EventAuthorityUpdated,
		Target:    hexAddr(a.self),
		Authority: hexAddr(addr),
		Role:      -1,
		Enabled:   next != nil,
	})
	return nil
}

// Authorize asks the authority whether caller may invoke selector on this
// component. [ErrNoAuthority] when none is installed, [ErrUnauthorized] on
// denial.
func (a *AuthManaged) Authorize(caller common.Address, selector Selector) error {
	a.mu.RLock()
	authority := a.authority
	a.mu.RUnlock()

	if authority == nil {
		a.metrics.Inc(MetricAuthorizeDenied)
		return ErrNoAuthority
	}
	if !authority.CanCall(caller, a.self, selector) {
		a.metrics.Inc(MetricAuthorizeDenied)
		return ErrUnauthorized
	}
	return nil
}

// Entry returns a reusable guard for one protected entry point, so call
// sites hash the selector once instead of per invocation. Entries for the
// same selector share one reentrancy lock.
func (a *AuthManaged) Entry(selector Selector) Entry {
	a.mu.Lock()
	if a.locks == nil {
		a.locks = make(map[Selector]*mutex.Mutex)
	}
	lock, ok := a.locks[selector]
	if !ok {
		lock = mutex.New()
		a.locks[selector] = lock
	}
	a.mu.Unlock()

	return Entry{managed: a, selector: selector, lock: lock}
}

// EntryFor derives the selector from a function signature and returns its
// guard.
func (a *AuthManaged) EntryFor(signature string) Entry {
	return a.Entry(SelectorOf(signature))
}

// Entry guards one (component, selector) entry point.
type Entry struct {
	managed  *AuthManaged
	selector Selector
	lock     *mutex.Mutex
}

// Selector returns the guarded selector.
func (e Entry) Selector() Selector {
	return e.selector
}

// Guard authorizes caller and then runs fn. fn does not run on denial.
func (e Entry) Guard(caller common.Address, fn func() error) error {
	if err := e.managed.Authorize(caller, e.selector); err != nil {
		return err
	}
	return fn()
}

// GuardExclusive is [Entry.Guard] with reentrancy protection: a nested call
// through the same selector fails with [ErrLocked] instead of running.
func (e Entry) GuardExclusive(caller common.Address, fn func() error) error {
	if err := e.managed.Authorize(caller, e.selector); err != nil {
		return err
	}
	return e.lock.Guard(fn)
}
