package callctx

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestGuardContexts(t *testing.T) {
	code := common.HexToAddress("0x01")
	proxyAddr := common.HexToAddress("0x02")

	g := New(code)

	if !g.IsDirect(code) {
		t.Fatal("call on own address not recognized as direct")
	}
	if g.IsDirect(proxyAddr) {
		t.Fatal("call on foreign storage recognized as direct")
	}

	if err := g.AssertDirect(code); err != nil {
		t.Fatalf("AssertDirect failed on direct call: %v", err)
	}
	if err := g.AssertDirect(proxyAddr); !errors.Is(err, ErrDelegatedCall) {
		t.Fatalf("expected ErrDelegatedCall, got %v", err)
	}

	if err := g.AssertDelegated(proxyAddr); err != nil {
		t.Fatalf("AssertDelegated failed on delegated call: %v", err)
	}
	if err := g.AssertDelegated(code); !errors.Is(err, ErrDirectCall) {
		t.Fatalf("expected ErrDirectCall, got %v", err)
	}
}
