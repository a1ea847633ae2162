package stores

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goGuard/bitmask"
)

// FunctionKey identifies a (target, selector) capability mask.
type FunctionKey struct {
	Target   common.Address
	Selector [4]byte
}

// Snapshot is the full persisted authority state, replayed at build time.
type Snapshot struct {
	UserMasks     map[common.Address]bitmask.Mask256
	FunctionMasks map[FunctionKey]bitmask.Mask256
	GlobalPause   bool
	TargetPause   map[common.Address]bool
}

// NewSnapshot returns an empty snapshot with all maps allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		UserMasks:     make(map[common.Address]bitmask.Mask256),
		FunctionMasks: make(map[FunctionKey]bitmask.Mask256),
		TargetPause:   make(map[common.Address]bool),
	}
}

// Store is the write-through persistence surface used by the managers.
// Mutations that fail here are rolled back in memory by the caller, so a
// store error never leaves memory and persistence disagreeing.
type Store interface {
	SaveUserMask(ctx context.Context, user common.Address, mask bitmask.Mask256) error
	SaveFunctionMask(ctx context.Context, key FunctionKey, mask bitmask.Mask256) error
	SaveGlobalPause(ctx context.Context, paused bool) error
	SaveTargetPause(ctx context.Context, target common.Address, paused bool) error
	Load(ctx context.Context) (*Snapshot, error)
}
