package stores

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goGuard/bitmask"
)

// ErrRedisUnavailable wraps transport-level failures so callers can treat
// every backend outage as one condition.
var ErrRedisUnavailable = errors.New("redis unavailable")

const pauseFlag = "1"

// Redis persists authority state as flat keys under a prefix:
//
//	<prefix>:role:<user>            32-byte mask, hex
//	<prefix>:fn:<target>:<selector> 32-byte mask, hex
//	<prefix>:pause:global           "1" when set
//	<prefix>:pause:target:<target>  "1" when set
//
// Zero masks and cleared flags are deleted, so Load only sees live state.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis wraps an existing client. The client's lifecycle belongs to the
// caller.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "gg"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) userKey(user common.Address) string {
	return fmt.Sprintf("%s:role:%s", r.prefix, strings.ToLower(user.Hex()))
}

func (r *Redis) fnKey(key FunctionKey) string {
	return fmt.Sprintf("%s:fn:%s:%s", r.prefix, strings.ToLower(key.Target.Hex()), hex.EncodeToString(key.Selector[:]))
}

func (r *Redis) globalPauseKey() string {
	return r.prefix + ":pause:global"
}

func (r *Redis) targetPauseKey(target common.Address) string {
	return fmt.Sprintf("%s:pause:target:%s", r.prefix, strings.ToLower(target.Hex()))
}

// SaveUserMask writes the user's role mask; zero masks delete the key.
func (r *Redis) SaveUserMask(ctx context.Context, user common.Address, mask bitmask.Mask256) error {
	return r.saveMask(ctx, r.userKey(user), mask)
}

// SaveFunctionMask writes the capability mask; zero masks delete the key.
func (r *Redis) SaveFunctionMask(ctx context.Context, key FunctionKey, mask bitmask.Mask256) error {
	return r.saveMask(ctx, r.fnKey(key), mask)
}

func (r *Redis) saveMask(ctx context.Context, key string, mask bitmask.Mask256) error {
	var err error
	if mask.IsZero() {
		err = r.client.Del(ctx, key).Err()
	} else {
		err = r.client.Set(ctx, key, hex.EncodeToString(mask.Encode()), 0).Err()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// SaveGlobalPause writes the global pause flag.
func (r *Redis) SaveGlobalPause(ctx context.Context, paused bool) error {
	return r.saveFlag(ctx, r.globalPauseKey(), paused)
}

// SaveTargetPause writes a per-target pause flag.
func (r *Redis) SaveTargetPause(ctx context.Context, target common.Address, paused bool) error {
	return r.saveFlag(ctx, r.targetPauseKey(target), paused)
}

func (r *Redis) saveFlag(ctx context.Context, key string, set bool) error {
	var err error
	if set {
		err = r.client.Set(ctx, key, pauseFlag, 0).Err()
	} else {
		err = r.client.Del(ctx, key).Err()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Load scans the prefix and rebuilds the full snapshot. Keys that fail to
// parse are an error, not a skip — a corrupt policy store must not silently
// load as a smaller policy.
func (r *Redis) Load(ctx context.Context) (*Snapshot, error) {
	snap := NewSnapshot()

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+":*", 512).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}

		for _, key := range keys {
			if err := r.loadKey(ctx, key, snap); err != nil {
				return nil, err
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return snap, nil
}

func (r *Redis) loadKey(ctx context.Context, key string, snap *Snapshot) error {
	rest, ok := strings.CutPrefix(key, r.prefix+":")
	if !ok {
		return nil
	}

	switch {
	case strings.HasPrefix(rest, "role:"):
		user, err := parseAddress(strings.TrimPrefix(rest, "role:"))
		if err != nil {
			return fmt.Errorf("bad role key %q: %w", key, err)
		}
		mask, err := r.readMask(ctx, key)
		if err != nil {
			return err
		}
		snap.UserMasks[user] = mask

	case strings.HasPrefix(rest, "fn:"):
		parts := strings.Split(strings.TrimPrefix(rest, "fn:"), ":")
		if len(parts) != 2 {
			return fmt.Errorf("bad function key %q", key)
		}
		target, err := parseAddress(parts[0])
		if err != nil {
			return fmt.Errorf("bad function key %q: %w", key, err)
		}
		sel, err := parseSelector(parts[1])
		if err != nil {
			return fmt.Errorf("bad function key %q: %w", key, err)
		}
		mask, err := r.readMask(ctx, key)
		if err != nil {
			return err
		}
		snap.FunctionMasks[FunctionKey{Target: target, Selector: sel}] = mask

	case rest == "pause:global":
		snap.GlobalPause = true

	case strings.HasPrefix(rest, "pause:target:"):
		target, err := parseAddress(strings.TrimPrefix(rest, "pause:target:"))
		if err != nil {
			return fmt.Errorf("bad pause key %q: %w", key, err)
		}
		snap.TargetPause[target] = true

	default:
		return fmt.Errorf("unknown key %q under policy prefix", key)
	}
	return nil
}

func (r *Redis) readMask(ctx context.Context, key string) (bitmask.Mask256, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Deleted between scan and read; treat as zero.
			return bitmask.Mask256{}, nil
		}
		return bitmask.Mask256{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	mask, err := bitmask.Parse(raw)
	if err != nil {
		return bitmask.Mask256{}, fmt.Errorf("corrupt mask at %q: %w", key, err)
	}
	return mask, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseSelector(s string) ([4]byte, error) {
	var sel [4]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 4 {
		return sel, fmt.Errorf("invalid selector %q", s)
	}
	copy(sel[:], raw)
	return sel, nil
}
