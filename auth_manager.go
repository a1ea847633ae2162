package goGuard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goGuard/attest"
	"github.com/MrEthical07/goGuard/bitmask"
	"github.com/MrEthical07/goGuard/internal/stores"
)

// roleWindow masks off the sentinel bits when intersecting user roles with a
// capability mask.
var roleWindow = bitmask.Span(0, int(MaxRole))

type functionKey struct {
	target   common.Address
	selector Selector
}

// AuthManager is the role-based access-control authority: per-user role
// masks, per-(target,selector) capability masks, owner-gated mutation, O(1)
// checks.
//
// All mutations are write-through to the policy store and roll back in
// memory if persistence fails, so the store never lags the answers
// [AuthManager.CanCall] gives. Construct through [Builder.Build].
type AuthManager struct {
	self      common.Address
	ownership OwnerSource

	mu        sync.RWMutex
	userMasks map[common.Address]bitmask.Mask256
	fnMasks   map[functionKey]bitmask.Mask256

	store   stores.Store
	events  *eventDispatcher
	metrics *Metrics
	attest  *attest.Manager
}

// Addr returns the manager's own address.
func (m *AuthManager) Addr() common.Address {
	return m.self
}

// Owner returns the address currently gating mutations.
func (m *AuthManager) Owner() common.Address {
	return m.ownership.Owner()
}

/*
====================================
USER ROLES
====================================
*/

// SetUserRole grants or revokes one role for a user. Owner-only; roles
// outside [0,253] fail with [ErrInvalidRole].
func (m *AuthManager) SetUserRole(ctx context.Context, caller, user common.Address, role Role, enabled bool) error {
	if role > MaxRole {
		return ErrInvalidRole
	}
	if err := requireOwner(m.ownership, caller); err != nil {
		return err
	}

	m.mu.Lock()
	prev := m.userMasks[user]
	next := prev
	next.SetTo(int(role), enabled)
	m.setUserMaskLocked(user, next)
	m.mu.Unlock()

	if err := m.store.SaveUserMask(ctx, user, next); err != nil {
		m.mu.Lock()
		m.setUserMaskLocked(user, prev)
		m.mu.Unlock()
		return err
	}

	m.metrics.Inc(MetricUserRoleUpdates)
	m.events.Emit(ctx, Event{
		Type:    EventUserRoleUpdated,
		User:    hexAddr(user),
		Role:    int(role),
		Enabled: enabled,
	})
	return nil
}

// HasRole reports whether the user currently holds the role.
func (m *AuthManager) HasRole(user common.Address, role Role) bool {
	if role > MaxRole {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userMasks[user].Has(int(role))
}

// UserRoles returns a copy of the user's role mask.
func (m *AuthManager) UserRoles(user common.Address) bitmask.Mask256 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userMasks[user]
}

/*
====================================
CAPABILITIES
====================================
*/

// SetRoleCapability grants or revokes a role's access to selector on
// target. Owner-only; roles outside [0,253] fail with [ErrInvalidRole].
func (m *AuthManager) SetRoleCapability(ctx context.Context, caller, target common.Address, selector Selector, role Role, enabled bool) error {
	if role > MaxRole {
		return ErrInvalidRole
	}
	return m.setCapabilityBit(ctx, caller, target, selector, int(role), enabled, EventRoleCapabilityUpdated)
}

// SetPublicCapability toggles the public sentinel: when set, the capability
// bypasses role checks entirely (unless closed).
func (m *AuthManager) SetPublicCapability(ctx context.Context, caller, target common.Address, selector Selector, enabled bool) error {
	return m.setCapabilityBit(ctx, caller, target, selector, PublicBit, enabled, EventPublicCapabilityUpdated)
}

// SetClosedCapability toggles the closed sentinel: when set, all access is
// denied regardless of public or role state.
func (m *AuthManager) SetClosedCapability(ctx context.Context, caller, target common.Address, selector Selector, enabled bool) error {
	return m.setCapabilityBit(ctx, caller, target, selector, ClosedBit, enabled, EventClosedCapabilityUpdated)
}

func (m *AuthManager) setCapabilityBit(ctx context.Context, caller, target common.Address, selector Selector, bit int, enabled bool, event EventType) error {
	if err := requireOwner(m.ownership, caller); err != nil {
		return err
	}

	key := functionKey{target: target, selector: selector}

	m.mu.Lock()
	prev := m.fnMasks[key]
	next := prev
	next.SetTo(bit, enabled)
	m.setFnMaskLocked(key, next)
	m.mu.Unlock()

	storeKey := stores.FunctionKey{Target: target, Selector: selector}
	if err := m.store.SaveFunctionMask(ctx, storeKey, next); err != nil {
		m.mu.Lock()
		m.setFnMaskLocked(key, prev)
		m.mu.Unlock()
		return err
	}

	role := -1
	if bit <= int(MaxRole) {
		role = bit
	}
	m.metrics.Inc(MetricCapabilityUpdates)
	m.events.Emit(ctx, Event{
		Type:     event,
		Target:   hexAddr(target),
		Selector: selector.Hex(),
		Role:     role,
		Enabled:  enabled,
	})
	return nil
}

// CapabilityMask returns a copy of the capability mask for (target,
// selector).
func (m *AuthManager) CapabilityMask(target common.Address, selector Selector) bitmask.Mask256 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fnMasks[functionKey{target: target, selector: selector}]
}

/*
====================================
AUTHORIZATION CHECK
====================================
*/

// CanCall reports whether caller may invoke selector on target. Precedence
// is strict: closed denies everything, then public allows everything, then
// the caller's roles must intersect the capability's role bits.
func (m *AuthManager) CanCall(caller, target common.Address, selector Selector) bool {
	var start time.Time
	if m.metrics.Enabled() {
		start = time.Now()
	}

	m.mu.RLock()
	fnMask := m.fnMasks[functionKey{target: target, selector: selector}]
	userMask := m.userMasks[caller]
	m.mu.RUnlock()

	allowed := false
	switch {
	case fnMask.Has(ClosedBit):
		m.metrics.Inc(MetricCanCallClosed)
	case fnMask.Has(PublicBit):
		m.metrics.Inc(MetricCanCallPublic)
		allowed = true
	default:
		allowed = userMask.Intersects(fnMask.And(roleWindow))
	}

	if allowed {
		m.metrics.Inc(MetricCanCallAllowed)
	} else {
		m.metrics.Inc(MetricCanCallDenied)
	}
	if m.metrics.Enabled() {
		m.metrics.Observe(MetricCanCallLatency, time.Since(start))
	}
	return allowed
}

/*
====================================
AUTHORITY HAND-OFF
====================================
*/

// SetAuthority re-points a managed target at a new authority. Owner-only.
// A nil next renounces the target's authority. The hand-off call into the
// target runs with the manager's own address as caller and must succeed
// entirely; its failure fails this operation.
func (m *AuthManager) SetAuthority(ctx context.Context, caller common.Address, target AuthorityManaged, next Authority) error {
	if err := requireOwner(m.ownership, caller); err != nil {
		return err
	}

	if err := target.SetAuthority(m.self, next); err != nil {
		return err
	}

	addr := common.Address{}
	if next != nil {
		addr = next.Addr()
	}
	m.metrics.Inc(MetricAuthorityHandoffs)
	m.events.Emit(ctx, Event{
		Type:      EventAuthorityUpdated,
		Target:    hexAddr(target.Addr()),
		Authority: hexAddr(addr),
		Role:      -1,
		Enabled:   next != nil,
	})
	return nil
}

/*
====================================
ATTESTATIONS
====================================
*/

// MintAttestation signs a portable proof that caller may invoke selector on
// target right now. Fails with [ErrUnauthorized] if the check does not
// pass, and with [ErrAttestationsDisabled] when the suite was built without
// attestation support.
func (m *AuthManager) MintAttestation(ctx context.Context, caller, target common.Address, selector Selector) (string, error) {
	if m.attest == nil {
		return "", ErrAttestationsDisabled
	}
	if !m.CanCall(caller, target, selector) {
		return "", ErrUnauthorized
	}

	token, err := m.attest.Mint(caller, target, selector.Hex())
	if err != nil {
		return "", err
	}

	m.metrics.Inc(MetricAttestationsMinted)
	m.events.Emit(ctx, Event{
		Type:     EventAttestationMinted,
		User:     hexAddr(caller),
		Target:   hexAddr(target),
		Selector: selector.Hex(),
		Role:     -1,
		Enabled:  true,
	})
	return token, nil
}

// VerifyAttestation validates a previously minted attestation.
func (m *AuthManager) VerifyAttestation(token string) (*attest.Claims, error) {
	if m.attest == nil {
		return nil, ErrAttestationsDisabled
	}
	return m.attest.Verify(token)
}

/*
====================================
INTERNALS
====================================
*/

func (m *AuthManager) setUserMaskLocked(user common.Address, mask bitmask.Mask256) {
	if mask.IsZero() {
		delete(m.userMasks, user)
		return
	}
	m.userMasks[user] = mask
}

func (m *AuthManager) setFnMaskLocked(key functionKey, mask bitmask.Mask256) {
	if mask.IsZero() {
		delete(m.fnMasks, key)
		return
	}
	m.fnMasks[key] = mask
}

func hexAddr(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
