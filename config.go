package goGuard

import (
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config configures a [Builder]. The zero value is not usable; start from
// [DefaultConfig].
type Config struct {
	Authority AuthorityConfig
	Pause     PauseConfig
	Store     StoreConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
	Attest    AttestConfig
}

/*
====================================
AUTHORITY CONFIG
====================================
*/

// AuthorityConfig configures the [AuthManager].
type AuthorityConfig struct {
	// Address is the manager's own address, seen by managed components as
	// the caller of authority hand-offs.
	Address common.Address
}

// PauseConfig configures the [PauseManager].
type PauseConfig struct {
	Address common.Address
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig configures policy persistence. Without a Redis client on the
// builder the suite runs on an in-process store.
type StoreConfig struct {
	RedisPrefix string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig configures the async event pipeline.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds events instead of blocking emitters; drops are
	// counted and visible via Suite.AuditDropped.
	DropIfFull bool
}

// MetricsConfig configures the metrics recorder.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
ATTEST CONFIG
====================================
*/

// AttestConfig configures capability attestations. Disabled by default;
// when enabled the signing configuration is passed through to the attest
// manager.
type AttestConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod string // "ed25519" (default), "hs256" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// DefaultConfig returns the baseline configuration: auditing and metrics
// off, attestations off, "gg" store prefix.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{RedisPrefix: "gg"},
		Audit: AuditConfig{BufferSize: 256},
		Attest: AttestConfig{
			SigningMethod: "ed25519",
			TTL:           5 * time.Minute,
		},
	}
}

// Validate checks cross-field consistency. Builder calls this; exported so
// configuration can be linted before wiring.
func (c Config) Validate() error {
	if c.Authority.Address == (common.Address{}) {
		return errors.New("authority address required")
	}
	if c.Pause.Address == (common.Address{}) {
		return errors.New("pause authority address required")
	}
	if c.Authority.Address == c.Pause.Address {
		return errors.New("authority and pause authority must have distinct addresses")
	}

	if c.Store.RedisPrefix == "" {
		return errors.New("store prefix required")
	}
	if strings.ContainsAny(c.Store.RedisPrefix, ": ") {
		return errors.New("store prefix must not contain ':' or spaces")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}

	if c.Attest.Enabled {
		if c.Attest.TTL <= 0 {
			return errors.New("attestation TTL must be positive")
		}
		switch c.Attest.SigningMethod {
		case "ed25519", "hs256":
		default:
			return errors.New("unsupported attestation signing method")
		}
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Attest.PrivateKey = cloneBytes(cfg.Attest.PrivateKey)
	out.Attest.PublicKey = cloneBytes(cfg.Attest.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
