package goGuard

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Owned is the default [OwnerSource]: a single owner address with an
// owner-gated transfer. Transferring to the zero address renounces
// ownership — once renounced, every owner-gated call fails for everyone,
// including zero-address callers.
type Owned struct {
	mu         sync.RWMutex
	owner      common.Address
	onTransfer func(prev, next common.Address)
}

// NewOwned returns an ownership provider with the given initial owner.
func NewOwned(owner common.Address) *Owned {
	return &Owned{owner: owner}
}

// Owner returns the current owner. The zero address means ownership was
// renounced.
func (o *Owned) Owner() common.Address {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.owner
}

// TransferOwnership hands ownership to next. Only the current owner may
// transfer, and a renounced instance rejects every caller.
func (o *Owned) TransferOwnership(caller, next common.Address) error {
	o.mu.Lock()
	prev := o.owner
	if prev == (common.Address{}) || caller != prev {
		o.mu.Unlock()
		return ErrUnauthorized
	}
	o.owner = next
	fn := o.onTransfer
	o.mu.Unlock()

	if fn != nil {
		fn(prev, next)
	}
	return nil
}

// setOnTransfer installs the event hook. Builder wiring only; not safe to
// call after the instance is shared.
func (o *Owned) setOnTransfer(fn func(prev, next common.Address)) {
	o.onTransfer = fn
}

// requireOwner gates a mutation on src's current owner. A zero owner means
// renounced and always fails.
func requireOwner(src OwnerSource, caller common.Address) error {
	owner := src.Owner()
	if owner == (common.Address{}) || caller != owner {
		return ErrUnauthorized
	}
	return nil
}
