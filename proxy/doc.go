// Package proxy models delegated calls between addressable components and
// implements the authorized upgrade protocol on top of them.
//
// # Call model
//
// A [Handler] is an opaque byte surface: input bytes in, output bytes or a
// failure out. Handlers are bound to addresses on a [Dispatcher]; a reachable
// address is data, not code. The dispatcher also owns per-address storage
// slots, which is what makes delegation meaningful: [Dispatcher.Delegate]
// runs one address's code against another address's storage.
//
// # Upgrade protocol
//
// [UpgradeableProxy] stores its implementation address in the standardized
// slot ([ImplementationSlot]) of its own storage. [Upgradeable] is the
// implementation-side half: it answers the self-certification probe
// (ProxiableUUID, direct calls only) and performs the slot swap
// (UpgradeToAndCall, delegated calls only, authorization hook first). The
// probe value must equal the slot identifier; anything else fails with
// [ErrUpgradeFailed] before any state changes.
//
// # Architecture boundaries
//
// This package does not know about roles, pausing, or ownership. Upgrade
// authorization is an injected hook; goGuard wires its managers into it.
package proxy
