package goGuard

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter or histogram tracked by [Metrics].
type MetricID uint16

const (
	// MetricCanCallAllowed counts authorization checks that passed.
	MetricCanCallAllowed MetricID = iota
	// MetricCanCallDenied counts authorization checks that failed.
	MetricCanCallDenied
	// MetricCanCallClosed counts checks denied by the closed sentinel.
	MetricCanCallClosed
	// MetricCanCallPublic counts checks allowed by the public sentinel.
	MetricCanCallPublic
	// MetricAuthorizeDenied counts AuthManaged guard rejections.
	MetricAuthorizeDenied
	// MetricPauseChecks counts pause queries.
	MetricPauseChecks
	// MetricPauseBlocked counts guarded calls rejected while paused.
	MetricPauseBlocked
	// MetricUserRoleUpdates counts successful SetUserRole mutations.
	MetricUserRoleUpdates
	// MetricCapabilityUpdates counts successful capability-mask mutations.
	MetricCapabilityUpdates
	// MetricPauseUpdates counts successful pause-state mutations.
	MetricPauseUpdates
	// MetricAuthorityHandoffs counts successful authority hand-offs.
	MetricAuthorityHandoffs
	// MetricOwnershipTransfers counts successful ownership transfers.
	MetricOwnershipTransfers
	// MetricAttestationsMinted counts attestations minted.
	MetricAttestationsMinted
	// MetricCanCallLatency is the CanCall latency histogram.
	MetricCanCallLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// paddedCounter keeps hot counters on separate cache lines.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of atomic counters plus the CanCall latency
// histogram. A nil or disabled Metrics is safe to use and does nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics builds a metrics recorder from configuration.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether the recorder is collecting.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a CanCall latency sample.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricCanCallLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters and histograms.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricCanCallLatency].buckets[i])
		}
		s.Histograms[MetricCanCallLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 1:
		return 0
	case us <= 5:
		return 1
	case us <= 10:
		return 2
	case us <= 25:
		return 3
	case us <= 50:
		return 4
	case us <= 100:
		return 5
	case us <= 500:
		return 6
	default:
		return 7
	}
}
