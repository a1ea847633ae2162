// Package callctx distinguishes direct calls to an implementation from
// delegated calls routed through a proxy.
//
// A guard records the address its code was registered under. During a call
// the dispatcher supplies the executing address (the storage the call runs
// against); if it matches the recorded code address the call is direct,
// otherwise the code is running on someone else's storage — a delegated
// call. Upgrade-sensitive functions use the assertions to refuse the wrong
// context before touching any state.
package callctx

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrDelegatedCall is returned when a direct-only function is reached
// through delegation.
var ErrDelegatedCall = errors.New("unauthorized: delegated call")

// ErrDirectCall is returned when a proxy-only function is invoked directly
// on the implementation.
var ErrDirectCall = errors.New("unauthorized: direct call")

// Guard pins a piece of code to the address it was registered under.
type Guard struct {
	code common.Address
}

// New records the code address of the implementation being guarded.
func New(code common.Address) Guard {
	return Guard{code: code}
}

// Code returns the recorded code address.
func (g Guard) Code() common.Address {
	return g.code
}

// IsDirect reports whether the executing address is the guard's own code
// address, i.e. the call did not arrive through delegation.
func (g Guard) IsDirect(self common.Address) bool {
	return self == g.code
}

// AssertDirect fails with [ErrDelegatedCall] unless the call executes
// directly on the implementation.
func (g Guard) AssertDirect(self common.Address) error {
	if !g.IsDirect(self) {
		return ErrDelegatedCall
	}
	return nil
}

// AssertDelegated fails with [ErrDirectCall] unless the call arrived through
// delegation. Writing proxy state from a direct implementation call would
// corrupt the implementation's own storage, so upgrade entry points assert
// this first.
func (g Guard) AssertDelegated(self common.Address) error {
	if g.IsDirect(self) {
		return ErrDirectCall
	}
	return nil
}
