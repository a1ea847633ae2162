package goGuard

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goGuard/attest"
	"github.com/MrEthical07/goGuard/bitmask"
	"github.com/MrEthical07/goGuard/internal/stores"
	"github.com/MrEthical07/goGuard/proxy"
)

// UpgradeSelector is the capability checked when the suite authorizes a
// proxy upgrade.
var UpgradeSelector = SelectorOf("upgradeToAndCall(address,bytes)")

// Builder assembles a [Suite]. Chain WithX calls, then Build.
type Builder struct {
	cfg       Config
	redis     redis.UniversalClient
	owner     common.Address
	ownership OwnerSource
	sink      EventSink
}

// New returns a builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cloneConfig(cfg)
	return b
}

// WithOwner installs an [Owned] ownership provider rooted at owner.
func (b *Builder) WithOwner(owner common.Address) *Builder {
	b.owner = owner
	b.ownership = nil
	return b
}

// WithOwnerSource installs an external ownership provider, for callers that
// already track ownership elsewhere. Overrides WithOwner.
func (b *Builder) WithOwnerSource(src OwnerSource) *Builder {
	b.ownership = src
	return b
}

// WithRedis makes policy state persistent through the given client. Without
// it the suite runs on an in-process store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithEventSink routes emitted events to sink. Only consulted when auditing
// is enabled in the configuration.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	return b
}

// WithAudit enables the event pipeline with the given buffer.
func (b *Builder) WithAudit(bufferSize int, dropIfFull bool) *Builder {
	b.cfg.Audit = AuditConfig{Enabled: true, BufferSize: bufferSize, DropIfFull: dropIfFull}
	return b
}

// WithMetrics enables the metrics recorder.
func (b *Builder) WithMetrics(latencyHistograms bool) *Builder {
	b.cfg.Metrics = MetricsConfig{Enabled: true, EnableLatencyHistograms: latencyHistograms}
	return b
}

// Build validates the configuration, loads persisted policy state, and
// wires the managers. The returned suite owns the event pipeline; call
// [Suite.Close] when done.
func (b *Builder) Build(ctx context.Context) (*Suite, error) {
	cfg := cloneConfig(b.cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("goGuard: invalid config: %w", err)
	}

	ownership := b.ownership
	if ownership == nil {
		if b.owner == (common.Address{}) {
			return nil, errors.New("goGuard: owner required")
		}
		ownership = NewOwned(b.owner)
	}

	metrics := NewMetrics(cfg.Metrics)
	events := newEventDispatcher(cfg.Audit, b.sink)

	if owned, ok := ownership.(*Owned); ok {
		owned.setOnTransfer(func(prev, next common.Address) {
			metrics.Inc(MetricOwnershipTransfers)
			events.Emit(context.Background(), Event{
				Type:    EventOwnershipTransferred,
				User:    hexAddr(prev),
				Owner:   hexAddr(next),
				Role:    -1,
				Enabled: next != (common.Address{}),
			})
		})
	}

	var store stores.Store
	if b.redis != nil {
		store = stores.NewRedis(b.redis, cfg.Store.RedisPrefix)
	} else {
		store = stores.NewMemory()
	}

	snap, err := store.Load(ctx)
	if err != nil {
		events.Close()
		return nil, fmt.Errorf("goGuard: load policy state: %w", err)
	}

	auth := &AuthManager{
		self:      cfg.Authority.Address,
		ownership: ownership,
		userMasks: make(map[common.Address]bitmask.Mask256, len(snap.UserMasks)),
		fnMasks:   make(map[functionKey]bitmask.Mask256, len(snap.FunctionMasks)),
		store:     store,
		events:    events,
		metrics:   metrics,
	}
	for user, mask := range snap.UserMasks {
		auth.userMasks[user] = mask
	}
	for key, mask := range snap.FunctionMasks {
		auth.fnMasks[functionKey{target: key.Target, selector: key.Selector}] = mask
	}

	pause := &PauseManager{
		self:      cfg.Pause.Address,
		ownership: ownership,
		global:    snap.GlobalPause,
		targets:   make(map[common.Address]bool, len(snap.TargetPause)),
		store:     store,
		events:    events,
		metrics:   metrics,
	}
	for target, paused := range snap.TargetPause {
		if paused {
			pause.targets[target] = true
		}
	}

	if cfg.Attest.Enabled {
		mgr, err := attest.NewManager(attest.Config{
			TTL:           cfg.Attest.TTL,
			SigningMethod: attest.SigningMethod(cfg.Attest.SigningMethod),
			PrivateKey:    cfg.Attest.PrivateKey,
			PublicKey:     cfg.Attest.PublicKey,
			Issuer:        cfg.Attest.Issuer,
			Leeway:        cfg.Attest.Leeway,
		})
		if err != nil {
			events.Close()
			return nil, fmt.Errorf("goGuard: attest: %w", err)
		}
		auth.attest = mgr
	}

	return &Suite{
		Auth:      auth,
		Pause:     pause,
		ownership: ownership,
		metrics:   metrics,
		events:    events,
		store:     store,
	}, nil
}

// Suite is a built authority pair sharing one owner, one store, and one
// telemetry pipeline.
type Suite struct {
	Auth  *AuthManager
	Pause *PauseManager

	ownership OwnerSource
	metrics   *Metrics
	events    *eventDispatcher
	store     stores.Store
}

// Owner returns the suite's current owner.
func (s *Suite) Owner() common.Address {
	return s.ownership.Owner()
}

// TransferOwnership hands the suite to a new owner when the suite owns its
// ownership provider. Externally sourced ownership must be transferred at
// the source.
func (s *Suite) TransferOwnership(caller, next common.Address) error {
	owned, ok := s.ownership.(*Owned)
	if !ok {
		return errors.New("goGuard: ownership is externally managed")
	}
	return owned.TransferOwnership(caller, next)
}

// NewManaged returns an authorization consumer bound to the suite's
// authority, with the suite's telemetry attached.
func (s *Suite) NewManaged(self common.Address) *AuthManaged {
	m := NewAuthManaged(self, s.Auth)
	m.metrics = s.metrics
	m.events = s.events
	return m
}

// NewPauseManaged returns a pause consumer bound to the suite's pause
// authority, with the suite's telemetry attached.
func (s *Suite) NewPauseManaged(self common.Address) *PauseManaged {
	m := NewPauseManaged(self, s.Pause)
	m.metrics = s.metrics
	m.events = s.events
	return m
}

// NewUpgradeable returns a UUPS mixin for the implementation bound at
// code: upgrades are authorized through the suite's authority against
// [UpgradeSelector] and recorded in the event log.
func (s *Suite) NewUpgradeable(disp *proxy.Dispatcher, code common.Address) *proxy.Upgradeable {
	u := proxy.NewUpgradeable(disp, code, func(env proxy.Env, next common.Address) error {
		if !s.Auth.CanCall(env.Caller, env.Self, UpgradeSelector) {
			return ErrUnauthorized
		}
		return nil
	})
	u.SetOnUpgrade(func(proxyAddr, impl common.Address) {
		s.events.Emit(context.Background(), Event{
			Type:    EventUpgraded,
			Target:  hexAddr(proxyAddr),
			Impl:    hexAddr(impl),
			Role:    -1,
			Enabled: true,
		})
	})
	return u
}

// MetricsSnapshot copies the suite's counters and histograms.
func (s *Suite) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// AuditDropped reports events shed under backpressure.
func (s *Suite) AuditDropped() uint64 {
	return s.events.Dropped()
}

// Close drains and stops the event pipeline.
func (s *Suite) Close() {
	s.events.Close()
}
