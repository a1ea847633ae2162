// Package goGuard provides composable access-control primitives for
// contract-style components: bitmask-based role authorization, two-tier
// pausability, ownership gating, and signed capability attestations, with
// reentrancy guarding and upgradeable proxy delegation in sub-packages.
//
// The package is designed for concurrent server workloads: manager methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goGuard is the public surface. It exposes [AuthManager], [PauseManager],
// [AuthManaged], [PauseManaged], [Builder], [Config], and value types
// (Selector, Event, MetricsSnapshot). Persistence lives under internal/ and
// is never exported; the bitmask, mutex, callctx, proxy, and attest
// sub-packages are standalone and never import goGuard.
//
// # Trust boundaries
//
// Two distinct boundaries exist and must not be conflated. Manager state is
// mutated only by the manager's owner. A managed component's authority
// reference is mutated only by its current authority — a capability
// hand-off, not an owner decision. See [AuthManaged.SetAuthority].
//
// # Performance contract
//
// [AuthManager.CanCall] is the hot path. It must not allocate and must
// complete without store round-trips; persistence is write-through on
// mutation only.
package goGuard
