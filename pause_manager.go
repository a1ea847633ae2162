package goGuard

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goGuard/internal/stores"
)

// PauseManager is the two-tier pause authority: one global switch and one
// per-target switch, combined with OR. Owner-gated like [AuthManager], with
// the same write-through persistence.
type PauseManager struct {
	self      common.Address
	ownership OwnerSource

	mu      sync.RWMutex
	global  bool
	targets map[common.Address]bool

	store   stores.Store
	events  *eventDispatcher
	metrics *Metrics
}

// Addr returns the manager's own address.
func (p *PauseManager) Addr() common.Address {
	return p.self
}

// SetGloballyPaused flips the global pause switch. Owner-only.
func (p *PauseManager) SetGloballyPaused(ctx context.Context, caller common.Address, paused bool) error {
	if err := requireOwner(p.ownership, caller); err != nil {
		return err
	}

	p.mu.Lock()
	prev := p.global
	p.global = paused
	p.mu.Unlock()

	if err := p.store.SaveGlobalPause(ctx, paused); err != nil {
		p.mu.Lock()
		p.global = prev
		p.mu.Unlock()
		return err
	}

	p.metrics.Inc(MetricPauseUpdates)
	p.events.Emit(ctx, Event{
		Type:    EventGlobalPauseUpdated,
		Role:    -1,
		Enabled: paused,
	})
	return nil
}

// SetTargetPaused flips the pause switch for one target. Owner-only.
func (p *PauseManager) SetTargetPaused(ctx context.Context, caller, target common.Address, paused bool) error {
	if err := requireOwner(p.ownership, caller); err != nil {
		return err
	}

	p.mu.Lock()
	prev := p.targets[target]
	p.setTargetLocked(target, paused)
	p.mu.Unlock()

	if err := p.store.SaveTargetPause(ctx, target, paused); err != nil {
		p.mu.Lock()
		p.setTargetLocked(target, prev)
		p.mu.Unlock()
		return err
	}

	p.metrics.Inc(MetricPauseUpdates)
	p.events.Emit(ctx, Event{
		Type:    EventTargetPauseUpdated,
		Target:  hexAddr(target),
		Role:    -1,
		Enabled: paused,
	})
	return nil
}

// IsGloballyPaused reports the global switch alone.
func (p *PauseManager) IsGloballyPaused() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.global
}

// IsTargetPaused reports the per-target switch alone.
func (p *PauseManager) IsTargetPaused(target common.Address) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.targets[target]
}

// IsPaused reports the effective state for target: paused when either tier
// is set.
func (p *PauseManager) IsPaused(target common.Address) bool {
	p.metrics.Inc(MetricPauseChecks)

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.global || p.targets[target]
}

// SetPauseAuthority re-points a managed target at a new pause authority.
// Owner-only; a nil next renounces the target's pause authority. The
// hand-off runs with the manager's address as caller.
func (p *PauseManager) SetPauseAuthority(ctx context.Context, caller common.Address, target PauseManagedTarget, next PauseAuthority) error {
	if err := requireOwner(p.ownership, caller); err != nil {
		return err
	}

	if err := target.SetPauseAuthority(p.self, next); err != nil {
		return err
	}

	addr := common.Address{}
	if next != nil {
		addr = next.Addr()
	}
	p.events.Emit(ctx, Event{
		Type:      EventPauseAuthorityUpdated,
		Target:    hexAddr(target.Addr()),
		Authority: hexAddr(addr),
		Role:      -1,
		Enabled:   next != nil,
	})
	return nil
}

func (p *PauseManager) setTargetLocked(target common.Address, paused bool) {
	if !paused {
		delete(p.targets, target)
		return
	}
	p.targets[target] = true
}
