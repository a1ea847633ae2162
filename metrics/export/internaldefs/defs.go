package internaldefs

import (
	goGuard "github.com/MrEthical07/goGuard"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// CounterDefs is the full exported counter set, in emission order.
var CounterDefs = []CounterDef{
	{ID: goGuard.MetricCanCallAllowed, Name: "goguard_cancall_allowed_total", Help: "Authorization checks that passed."},
	{ID: goGuard.MetricCanCallDenied, Name: "goguard_cancall_denied_total", Help: "Authorization checks that failed."},
	{ID: goGuard.MetricCanCallClosed, Name: "goguard_cancall_closed_total", Help: "Checks denied by the closed sentinel."},
	{ID: goGuard.MetricCanCallPublic, Name: "goguard_cancall_public_total", Help: "Checks allowed by the public sentinel."},
	{ID: goGuard.MetricAuthorizeDenied, Name: "goguard_authorize_denied_total", Help: "Managed-component guard rejections."},
	{ID: goGuard.MetricPauseChecks, Name: "goguard_pause_checks_total", Help: "Pause state queries."},
	{ID: goGuard.MetricPauseBlocked, Name: "goguard_pause_blocked_total", Help: "Guarded calls rejected while paused."},
	{ID: goGuard.MetricUserRoleUpdates, Name: "goguard_user_role_updates_total", Help: "Successful user role mutations."},
	{ID: goGuard.MetricCapabilityUpdates, Name: "goguard_capability_updates_total", Help: "Successful capability mask mutations."},
	{ID: goGuard.MetricPauseUpdates, Name: "goguard_pause_updates_total", Help: "Successful pause state mutations."},
	{ID: goGuard.MetricAuthorityHandoffs, Name: "goguard_authority_handoffs_total", Help: "Successful authority hand-offs."},
	{ID: goGuard.MetricOwnershipTransfers, Name: "goguard_ownership_transfers_total", Help: "Successful ownership transfers."},
	{ID: goGuard.MetricAttestationsMinted, Name: "goguard_attestations_minted_total", Help: "Capability attestations minted."},
}

// HistogramDefs is the full exported histogram set.
var HistogramDefs = []HistogramDef{
	{ID: goGuard.MetricCanCallLatency, Name: "goguard_cancall_latency_microseconds", Help: "CanCall latency histogram."},
}

// HistogramBounds are the upper bucket bounds, in microseconds, matching
// the core recorder.
var HistogramBounds = []string{
	"1",
	"5",
	"10",
	"25",
	"50",
	"100",
	"500",
	"+Inf",
}

// HistogramBoundSuffix are metric-name-safe renderings of HistogramBounds.
var HistogramBoundSuffix = []string{
	"1",
	"5",
	"10",
	"25",
	"50",
	"100",
	"500",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed bucket
// count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
