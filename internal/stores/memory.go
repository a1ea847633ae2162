package stores

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goGuard/bitmask"
)

// Memory is the in-process store used when no Redis client is configured.
// It keeps the single code path through the Store interface alive and gives
// tests a faithful stand-in for the Redis implementation.
type Memory struct {
	mu    sync.RWMutex
	users map[common.Address]bitmask.Mask256
	fns   map[FunctionKey]bitmask.Mask256

	globalPause bool
	targetPause map[common.Address]bool
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		users:       make(map[common.Address]bitmask.Mask256),
		fns:         make(map[FunctionKey]bitmask.Mask256),
		targetPause: make(map[common.Address]bool),
	}
}

// SaveUserMask stores the user's role mask; zero masks are deleted.
func (m *Memory) SaveUserMask(_ context.Context, user common.Address, mask bitmask.Mask256) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mask.IsZero() {
		delete(m.users, user)
		return nil
	}
	m.users[user] = mask
	return nil
}

// SaveFunctionMask stores the capability mask; zero masks are deleted.
func (m *Memory) SaveFunctionMask(_ context.Context, key FunctionKey, mask bitmask.Mask256) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mask.IsZero() {
		delete(m.fns, key)
		return nil
	}
	m.fns[key] = mask
	return nil
}

// SaveGlobalPause stores the global pause flag.
func (m *Memory) SaveGlobalPause(_ context.Context, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globalPause = paused
	return nil
}

// SaveTargetPause stores a per-target pause flag; cleared flags are deleted.
func (m *Memory) SaveTargetPause(_ context.Context, target common.Address, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !paused {
		delete(m.targetPause, target)
		return nil
	}
	m.targetPause[target] = true
	return nil
}

// Load returns a copy of the stored state.
func (m *Memory) Load(_ context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := NewSnapshot()
	for user, mask := range m.users {
		snap.UserMasks[user] = mask
	}
	for key, mask := range m.fns {
		snap.FunctionMasks[key] = mask
	}
	snap.GlobalPause = m.globalPause
	for target, paused := range m.targetPause {
		snap.TargetPause[target] = paused
	}
	return snap, nil
}
