package proxy

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNoCode is returned when a call targets an address with no bound handler.
var ErrNoCode = errors.New("no code at address")

// ErrAddressInUse is returned when binding a handler to an occupied address.
var ErrAddressInUse = errors.New("address already bound")

// Env carries the execution context of a single call.
//
// Self is the address whose storage the call runs against. Code is the
// address the executing handler was bound under. For a direct call the two
// are equal; delegation keeps Self and swaps Code.
type Env struct {
	Caller common.Address
	Self   common.Address
	Code   common.Address
}

// Handler is an addressable component: opaque bytes in, opaque bytes or a
// failure out. Implementations must treat input as immutable.
type Handler interface {
	Invoke(ctx context.Context, env Env, input []byte) ([]byte, error)
}

// HandlerFunc adapts a function to the [Handler] interface.
type HandlerFunc func(ctx context.Context, env Env, input []byte) ([]byte, error)

// Invoke calls f.
func (f HandlerFunc) Invoke(ctx context.Context, env Env, input []byte) ([]byte, error) {
	return f(ctx, env, input)
}

// Dispatcher binds handlers to addresses and owns every address's storage
// slots. All methods are safe for concurrent use.
type Dispatcher struct {
	mu      sync.RWMutex
	code    map[common.Address]Handler
	storage map[common.Address]map[common.Hash]common.Hash
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		code:    make(map[common.Address]Handler),
		storage: make(map[common.Address]map[common.Hash]common.Hash),
	}
}

// Bind registers h at addr. Rebinding an occupied address fails with
// [ErrAddressInUse]; upgrades swap the implementation slot, never the code
// registry.
func (d *Dispatcher) Bind(addr common.Address, h Handler) error {
	if h == nil {
		return errors.New("nil handler")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.code[addr]; exists {
		return ErrAddressInUse
	}
	d.code[addr] = h
	return nil
}

// Resolve returns the handler bound at addr.
func (d *Dispatcher) Resolve(addr common.Address) (Handler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.code[addr]
	return h, ok
}

// Call performs a direct call: target's code runs against target's storage.
func (d *Dispatcher) Call(ctx context.Context, caller, target common.Address, input []byte) ([]byte, error) {
	h, ok := d.Resolve(target)
	if !ok {
		return nil, ErrNoCode
	}
	return h.Invoke(ctx, Env{Caller: caller, Self: target, Code: target}, input)
}

// Delegate runs code's handler against env.Self's storage, preserving the
// original caller. Output bytes and failures pass through unchanged.
func (d *Dispatcher) Delegate(ctx context.Context, env Env, code common.Address, input []byte) ([]byte, error) {
	h, ok := d.Resolve(code)
	if !ok {
		return nil, ErrNoCode
	}
	return h.Invoke(ctx, Env{Caller: env.Caller, Self: env.Self, Code: code}, input)
}

// SlotGet reads a storage slot of addr. Unset slots read as the zero hash.
func (d *Dispatcher) SlotGet(addr common.Address, slot common.Hash) common.Hash {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.storage[addr][slot]
}

// SlotSet writes a storage slot of addr.
func (d *Dispatcher) SlotSet(addr common.Address, slot, value common.Hash) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slots := d.storage[addr]
	if slots == nil {
		slots = make(map[common.Hash]common.Hash)
		d.storage[addr] = slots
	}
	slots[slot] = value
}

// unbind removes a handler and its storage. Only construction rollback uses
// this; a live address is never unbound.
func (d *Dispatcher) unbind(addr common.Address) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.code, addr)
	delete(d.storage, addr)
}
