// Package bitmask provides the fixed-width 256-bit mask type used by goGuard
// role and capability state.
//
// # Layout
//
// A [Mask256] is four 64-bit words. Bit 0 lives in the lowest word; bit 255
// is the highest bit of the highest word. The package assigns no meaning to
// individual bits — goGuard reserves bits 254 and 255 of capability masks for
// its public/closed sentinels, but that convention lives in the goGuard
// package, not here.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. It provides
// the codec (Encode/Decode, hex String/Parse) used by the persistence layer.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import goGuard or any of its other sub-packages.
//   - Interpret sentinel bits.
package bitmask
