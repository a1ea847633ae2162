package goGuard

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// PauseManaged is the consumer side of pausability: a component that checks
// its configured [PauseAuthority] before running pause-sensitive code.
type PauseManaged struct {
	self common.Address

	mu        sync.RWMutex
	authority PauseAuthority

	metrics *Metrics
	events  *eventDispatcher
}

// NewPauseManaged wires a managed component to its initial pause authority.
// A nil authority means the component is never paused.
func NewPauseManaged(self common.Address, authority PauseAuthority) *PauseManaged {
	return &PauseManaged{
		self:      self,
		authority: authority,
	}
}

// Addr returns the managed component's address.
func (p *PauseManaged) Addr() common.Address {
	return p.self
}

// PauseAuthority returns the currently installed authority, nil if none.
func (p *PauseManaged) PauseAuthority() PauseAuthority {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.authority
}

// SetPauseAuthority installs a new pause authority. Only the current
// authority may call this; with none installed nobody can.
func (p *PauseManaged) SetPauseAuthority(caller common.Address, next PauseAuthority) error {
	p.mu.Lock()
	if p.authority == nil || caller != p.authority.Addr() {
		p.mu.Unlock()
		return ErrUnauthorized
	}
	p.authority = next
	p.mu.Unlock()

	addr := common.Address{}
	if next != nil {
		addr = next.Addr()
	}
	p.events.Emit(context.Background(), Event{
		Type:      EventPauseAuthorityUpdated,
		Target:    hexAddr(p.self),
		Authority: hexAddr(addr),
		Role:      -1,
		Enabled:   next != nil,
	})
	return nil
}

// Paused reports the component's effective pause state.
func (p *PauseManaged) Paused() bool {
	p.mu.RLock()
	authority := p.authority
	p.mu.RUnlock()

	if authority == nil {
		return false
	}
	return authority.IsPaused(p.self)
}

// RequireNotPaused fails with [ErrPaused] while the component is paused.
func (p *PauseManaged) RequireNotPaused() error {
	if p.Paused() {
		p.metrics.Inc(MetricPauseBlocked)
		return ErrPaused
	}
	return nil
}

// RequirePaused fails with [ErrNotPaused] unless the component is paused.
// Recovery paths that must only run during an incident use this.
func (p *PauseManaged) RequirePaused() error {
	if !p.Paused() {
		return ErrNotPaused
	}
	return nil
}

// WhenNotPaused runs fn only while the component is not paused.
func (p *PauseManaged) WhenNotPaused(fn func() error) error {
	if err := p.RequireNotPaused(); err != nil {
		return err
	}
	return fn()
}

// WhenPaused runs fn only while the component is paused.
func (p *PauseManaged) WhenPaused(fn func() error) error {
	if err := p.RequirePaused(); err != nil {
		return err
	}
	return fn()
}
