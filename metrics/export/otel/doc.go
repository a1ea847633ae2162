// Package otel bridges goGuard metrics into OpenTelemetry.
//
// [NewOTelExporter] registers observable instruments on a caller-supplied
// [go.opentelemetry.io/otel/metric.Meter] and snapshots the suite on every
// collection. The exporter never pushes; cadence belongs to the configured
// reader.
//
// # What this package must NOT do
//
//   - Construct or configure a meter provider — callers own the pipeline.
//   - Mutate suite state.
package otel
