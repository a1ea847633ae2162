package proxy

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ImplementationSource resolves the address a forwarder delegates to.
type ImplementationSource interface {
	Implementation() common.Address
}

// Forwarder is the universal delegation path: every call is forwarded to the
// source's current implementation with input, output, and failure reason
// passed through unchanged. No branching on call content happens here.
type Forwarder struct {
	disp   *Dispatcher
	source ImplementationSource
}

// NewForwarder builds a forwarder that resolves its target through source on
// every call.
func NewForwarder(disp *Dispatcher, source ImplementationSource) *Forwarder {
	return &Forwarder{disp: disp, source: source}
}

// Invoke delegates the call to the current implementation.
func (f *Forwarder) Invoke(ctx context.Context, env Env, input []byte) ([]byte, error) {
	return f.disp.Delegate(ctx, env, f.source.Implementation(), input)
}

type staticSource common.Address

func (s staticSource) Implementation() common.Address {
	return common.Address(s)
}

// NewStatic returns a forwarder pinned to a fixed implementation address.
func NewStatic(disp *Dispatcher, impl common.Address) *Forwarder {
	return NewForwarder(disp, staticSource(impl))
}
