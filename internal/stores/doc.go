// Package stores persists goGuard authority state: user role masks,
// function capability masks, and pause flags.
//
// Managers keep their working state in memory — authorization checks never
// touch a store. Stores are write-through on mutation and replayed once at
// build time, so a restarted process resumes with the policy it last
// acknowledged.
//
// Two implementations exist: an in-process Memory store and a Redis store.
// Both persist masks in the fixed 32-byte encoding of bitmask.Mask256; zero
// masks and cleared pause flags are deleted rather than stored.
package stores
