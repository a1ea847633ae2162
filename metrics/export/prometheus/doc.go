// Package prometheus renders goGuard metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [goGuard.Suite] and exposes an
// [net/http.Handler] that renders all goGuard counters and histograms.
// Counter names are prefixed goguard_*_total; the single histogram is
// goguard_cancall_latency_microseconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate suite state.
package prometheus
