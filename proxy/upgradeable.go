package proxy

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goGuard/callctx"
)

// ImplementationSlot is the standardized storage slot holding the active
// implementation address of an upgradeable proxy:
// keccak256("eip1967.proxy.implementation") - 1.
var ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")

// ErrUpgradeFailed is returned when a candidate implementation fails the
// self-certification probe or the slot-equality check.
var ErrUpgradeFailed = errors.New("upgrade failed")

// Proxiable is the self-certification probe. A compliant implementation
// answers with [ImplementationSlot]; the probe is only answerable directly —
// a proxy must never certify itself.
type Proxiable interface {
	ProxiableUUID(env Env) (common.Hash, error)
}

// VerifyImplementation runs the self-certification probe against the handler
// bound at impl. Every failure mode maps to [ErrUpgradeFailed] so callers
// can treat "not upgradeable to" as one condition.
func VerifyImplementation(disp *Dispatcher, impl common.Address) error {
	h, ok := disp.Resolve(impl)
	if !ok {
		return fmt.Errorf("%w: no code at %s", ErrUpgradeFailed, impl)
	}

	p, ok := h.(Proxiable)
	if !ok {
		return fmt.Errorf("%w: %s does not answer the certification probe", ErrUpgradeFailed, impl)
	}

	uuid, err := p.ProxiableUUID(Env{Caller: impl, Self: impl, Code: impl})
	if err != nil {
		return fmt.Errorf("%w: probe on %s: %v", ErrUpgradeFailed, impl, err)
	}
	if uuid != ImplementationSlot {
		return fmt.Errorf("%w: %s certified slot %s", ErrUpgradeFailed, impl, uuid)
	}
	return nil
}

// ProxyConfig describes a new upgradeable proxy.
type ProxyConfig struct {
	// Address the proxy is bound at.
	Address common.Address
	// Implementation is the initial implementation address.
	Implementation common.Address
	// Deployer is recorded as the caller of the optional init delegation.
	Deployer common.Address
	// InitPayload, when non-empty, is delegated to the implementation after
	// the slot is written. A failing init aborts construction entirely.
	InitPayload []byte
	// OnUpgrade observes every successful implementation swap, including the
	// initial one. Failed swaps are never reported.
	OnUpgrade func(proxyAddr, impl common.Address)
}

// UpgradeableProxy forwards every call to the implementation stored in
// [ImplementationSlot] of its own storage. The slot is written only by the
// upgrade protocol running through delegation.
type UpgradeableProxy struct {
	addr common.Address
	disp *Dispatcher
}

// NewUpgradeableProxy verifies the initial implementation, binds the proxy,
// writes the implementation slot, and runs the optional init payload. Any
// failure unwinds completely: no half-constructed proxy remains bound.
func NewUpgradeableProxy(ctx context.Context, disp *Dispatcher, cfg ProxyConfig) (*UpgradeableProxy, error) {
	if err := VerifyImplementation(disp, cfg.Implementation); err != nil {
		return nil, err
	}

	p := &UpgradeableProxy{addr: cfg.Address, disp: disp}
	if err := disp.Bind(cfg.Address, p); err != nil {
		return nil, err
	}
	disp.SlotSet(cfg.Address, ImplementationSlot, addressHash(cfg.Implementation))

	if len(cfg.InitPayload) > 0 {
		env := Env{Caller: cfg.Deployer, Self: cfg.Address, Code: cfg.Implementation}
		if _, err := disp.Delegate(ctx, env, cfg.Implementation, cfg.InitPayload); err != nil {
			disp.unbind(cfg.Address)
			return nil, err
		}
	}

	if cfg.OnUpgrade != nil {
		cfg.OnUpgrade(cfg.Address, cfg.Implementation)
	}
	return p, nil
}

// Addr returns the proxy's bound address.
func (p *UpgradeableProxy) Addr() common.Address {
	return p.addr
}

// Implementation reads the active implementation from the standardized slot.
func (p *UpgradeableProxy) Implementation() common.Address {
	return common.BytesToAddress(p.disp.SlotGet(p.addr, ImplementationSlot).Bytes())
}

// Invoke forwards the call to the active implementation unchanged.
func (p *UpgradeableProxy) Invoke(ctx context.Context, env Env, input []byte) ([]byte, error) {
	return p.disp.Delegate(ctx, env, p.Implementation(), input)
}

// AuthorizeUpgrade decides whether env's caller may replace the
// implementation of the proxy at env.Self with next.
type AuthorizeUpgrade func(env Env, next common.Address) error

// Upgradeable is the implementation-side half of the upgrade protocol,
// embedded by handlers that want to be valid proxy targets.
type Upgradeable struct {
	guard     callctx.Guard
	disp      *Dispatcher
	authorize AuthorizeUpgrade
	onUpgrade func(proxyAddr, impl common.Address)
}

// NewUpgradeable pins the mixin to the implementation's own code address.
// authorize may be nil, which leaves the upgrade entry open to any caller —
// concrete implementations are expected to supply an owner or authority
// check.
func NewUpgradeable(disp *Dispatcher, code common.Address, authorize AuthorizeUpgrade) *Upgradeable {
	return &Upgradeable{
		guard:     callctx.New(code),
		disp:      disp,
		authorize: authorize,
	}
}

// SetOnUpgrade installs an observer for successful swaps.
func (u *Upgradeable) SetOnUpgrade(fn func(proxyAddr, impl common.Address)) {
	u.onUpgrade = fn
}

// ProxiableUUID answers the self-certification probe. Delegated calls are
// refused: a proxy answering the probe would certify its own address space.
func (u *Upgradeable) ProxiableUUID(env Env) (common.Hash, error) {
	if err := u.guard.AssertDirect(env.Self); err != nil {
		return common.Hash{}, err
	}
	return ImplementationSlot, nil
}

// UpgradeToAndCall swaps the implementation stored at env.Self and, when
// payload is non-empty, delegates it to the new implementation. It is only
// reachable through delegation, only past the authorization hook, and only
// for candidates that pass the same certification check as construction. A
// failing payload call restores the previous slot value before returning —
// a half-upgraded proxy must never persist.
func (u *Upgradeable) UpgradeToAndCall(ctx context.Context, env Env, next common.Address, payload []byte) error {
	if err := u.guard.AssertDelegated(env.Self); err != nil {
		return err
	}
	if u.authorize != nil {
		if err := u.authorize(env, next); err != nil {
			return err
		}
	}
	if err := VerifyImplementation(u.disp, next); err != nil {
		return err
	}

	prev := u.disp.SlotGet(env.Self, ImplementationSlot)
	u.disp.SlotSet(env.Self, ImplementationSlot, addressHash(next))

	if len(payload) > 0 {
		delegated := Env{Caller: env.Caller, Self: env.Self, Code: next}
		if _, err := u.disp.Delegate(ctx, delegated, next, payload); err != nil {
			u.disp.SlotSet(env.Self, ImplementationSlot, prev)
			return err
		}
	}

	if u.onUpgrade != nil {
		u.onUpgrade(env.Self, next)
	}
	return nil
}

func addressHash(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}
