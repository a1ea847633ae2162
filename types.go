package goGuard

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Role is a role identifier. Valid roles occupy bits 0 through [MaxRole] of
// a user's role mask; the two bits above are capability-mask sentinels and
// never valid roles.
type Role uint8

const (
	// MaxRole is the highest assignable role identifier.
	MaxRole Role = 253

	// PublicBit marks a capability as callable by anyone, bypassing the
	// role check entirely.
	PublicBit = 254

	// ClosedBit denies all access to a capability unconditionally. Closed
	// wins over public, which wins over role matching; no other precedence
	// rule exists.
	ClosedBit = 255
)

// Selector identifies a function on a target component: the first four bytes
// of the Keccak-256 hash of its signature.
type Selector [4]byte

// SelectorOf derives the selector for a function signature, e.g.
// "transfer(address,uint256)".
func SelectorOf(signature string) Selector {
	var sel Selector
	copy(sel[:], crypto.Keccak256([]byte(signature)))
	return sel
}

// Hex returns the 0x-prefixed hex form of the selector.
func (s Selector) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// ParseSelector decodes a 0x-prefixed or bare 8-digit hex selector.
func ParseSelector(s string) (Selector, error) {
	var sel Selector
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(raw) != len(sel) {
		return sel, ErrInvalidSelector
	}
	copy(sel[:], raw)
	return sel, nil
}

// Authority answers authorization queries for managed components. It is
// consumed by [AuthManaged] and implemented by [AuthManager]; any compatible
// implementation may stand in.
type Authority interface {
	// Addr is the authority's own address, used by managed components to
	// verify hand-off callers.
	Addr() common.Address

	// CanCall reports whether caller may invoke selector on target.
	CanCall(caller, target common.Address, selector Selector) bool
}

// PauseAuthority answers pause queries for managed components. Consumed by
// [PauseManaged], implemented by [PauseManager].
type PauseAuthority interface {
	Addr() common.Address

	// IsPaused reports whether target is paused, globally or specifically.
	IsPaused(target common.Address) bool
}

// OwnerSource supplies the owner gating a manager's mutations. [Owned] is
// the default implementation; anything exposing a single owner address is
// compatible.
type OwnerSource interface {
	Owner() common.Address
}

// AuthorityManaged is the consumer-side hand-off surface the manager calls
// into when re-pointing a target at a new authority.
type AuthorityManaged interface {
	Addr() common.Address
	SetAuthority(caller common.Address, next Authority) error
}

// PauseManagedTarget is the pause-side hand-off surface.
type PauseManagedTarget interface {
	Addr() common.Address
	SetPauseAuthority(caller common.Address, next PauseAuthority) error
}
