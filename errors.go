package goGuard

import (
	"errors"

	"github.com/MrEthical07/goGuard/callctx"
	"github.com/MrEthical07/goGuard/mutex"
	"github.com/MrEthical07/goGuard/proxy"
)

var (
	// ErrUnauthorized is returned when a caller lacks the required
	// capability: owner, authority, role, or hand-off rights.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidRole is returned for role identifiers outside [0,253].
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidSelector is returned for malformed selector strings.
	ErrInvalidSelector = errors.New("invalid selector")
	// ErrPaused is returned when a guarded function runs while its target
	// is paused.
	ErrPaused = errors.New("paused")
	// ErrNotPaused is returned when an operation requires the paused state
	// and the target is not paused.
	ErrNotPaused = errors.New("not paused")
	// ErrNoAuthority is returned when a managed component has no authority
	// reference configured.
	ErrNoAuthority = errors.New("no authority configured")
	// ErrAttestationsDisabled is returned by MintAttestation when the suite
	// was built without attestation support.
	ErrAttestationsDisabled = errors.New("attestations disabled")
)

// Re-exported sub-package sentinels, so callers matching against goGuard's
// taxonomy do not need to know which layer produced the failure.
var (
	// ErrLocked is returned when the reentrancy mutex detects a nested
	// guarded call.
	ErrLocked = mutex.ErrLocked
	// ErrUpgradeFailed is returned when a candidate implementation fails
	// self-certification or the slot-equality check.
	ErrUpgradeFailed = proxy.ErrUpgradeFailed
	// ErrDelegatedCall is returned when a direct-only function is reached
	// through a proxy.
	ErrDelegatedCall = callctx.ErrDelegatedCall
	// ErrDirectCall is returned when a proxy-only function is invoked
	// directly on the implementation.
	ErrDirectCall = callctx.ErrDirectCall
)
