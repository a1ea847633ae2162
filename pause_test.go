package goGuard

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestPauseTiersCombineWithOr(t *testing.T) {
	suite := newTestSuite(t)
	ctx := context.Background()

	other := common.HexToAddress("0x0000000000000000000000000000000000000c02")

	if suite.Pause.IsPaused(testTarget) {
		t.Fatal("expected unpaused initially")
	}

	// Target pause hits only the named target.
	if err := suite.Pause.SetTargetPaused(ctx, testOwner, testTarget, true); err != nil {
		t.Fatalf("SetTargetPaused: %v", err)
	}
	if !suite.Pause.IsPaused(testTarget) {
		t.Fatal("expected target paused")
	}
	if suite.Pause.IsPaused(other) {
		t.Fatal("target pause leaked to another target")
	}

	// Global pause hits everything, independently of the target tier.
	if err := suite.Pause.SetGloballyPaused(ctx, testOwner, true); err != nil {
		t.Fatalf("SetGloballyPaused: %v", err)
	}
	if !suite.Pause.IsPaused(other) {
		t.Fatal("expected global pause to cover all targets")
	}

	// Clearing the global tier leaves the target tier in force.
	if err := suite.Pause.SetGloballyPaused(ctx, testOwner, false); err != nil {
		t.Fatalf("unpause global: %v", err)
	}
	if !suite.Pause.IsPaused(testTarget) {
		t.Fatal("target pause must survive global unpause")
	}
	if suite.Pause.IsPaused(other) {
		t.Fatal("expected other target unpaused again")
	}

	if err := suite.Pause.SetTargetPaused(ctx, testOwner, testTarget, false); err != nil {
		t.Fatalf("unpause target: %v", err)
	}
	if suite.Pause.IsPaused(testTarget) {
		t.Fatal("expected fully unpaused")
	}
}

func TestPauseMutationsOwnerGated(t *testing.T) {
	suite := newTestSuite(t)
	ctx := context.Background()

	if err := suite.Pause.SetGloballyPaused(ctx, testIntruder, true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := suite.Pause.SetTargetPaused(ctx, testIntruder, testTarget, true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if suite.Pause.IsGloballyPaused() || suite.Pause.IsTargetPaused(testTarget) {
		t.Fatal("denied mutations must not change state")
	}
}

func TestPauseManagedGuards(t *testing.T) {
	suite := newTestSuite(t)
	ctx := context.Background()

	managed := suite.NewPauseManaged(testTarget)

	if err := managed.RequireNotPaused(); err != nil {
		t.Fatalf("RequireNotPaused while unpaused: %v", err)
	}
	if err := managed.RequirePaused(); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("expected ErrNotPaused, got %v", err)
	}

	if err := suite.Pause.SetTargetPaused(ctx, testOwner, testTarget, true); err != nil {
		t.Fatalf("pause: %v", err)
	}

	if err := managed.RequireNotPaused(); !errors.Is(err, ErrPaused) {
		t.Fatalf("expected ErrPaused, got %v", err)
	}
	if err := managed.RequirePaused(); err != nil {
		t.Fatalf("RequirePaused while paused: %v", err)
	}

	ran := false
	if err := managed.WhenNotPaused(func() error {
		ran = true
		return nil
	}); !errors.Is(err, ErrPaused) {
		t.Fatalf("expected ErrPaused from WhenNotPaused, got %v", err)
	}
	if ran {
		t.Fatal("guarded body ran while paused")
	}

	if err := managed.WhenPaused(func() error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("WhenPaused: %v", err)
	}
	if !ran {
		t.Fatal("recovery body did not run while paused")
	}
}

func TestPauseAuthorityHandoff(t *testing.T) {
	suite := newTestSuite(t)
	ctx := context.Background()

	managed := suite.NewPauseManaged(testTarget)

	next := &staticPauseAuthority{addr: common.HexToAddress("0x0000000000000000000000000000000000000a08")}

	if err := managed.SetPauseAuthority(testIntruder, next); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for intruder, got %v", err)
	}

	if err := suite.Pause.SetPauseAuthority(ctx, testOwner, managed, next); err != nil {
		t.Fatalf("hand-off: %v", err)
	}
	if managed.PauseAuthority() != PauseAuthority(next) {
		t.Fatal("pause authority reference not updated")
	}

	// The new authority pauses unconditionally; the old manager no longer
	// matters.
	if !managed.Paused() {
		t.Fatal("expected paused under the new authority")
	}
	if err := suite.Pause.SetPauseAuthority(ctx, testOwner, managed, suite.Pause); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected old authority rejected, got %v", err)
	}
}

func TestPauseAuthorityRenounceThroughManager(t *testing.T) {
	sink := NewChannelSink(16)

	suite, err := New().
		WithConfig(testConfig()).
		WithOwner(testOwner).
		WithAudit(16, false).
		WithEventSink(sink).
		Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	managed := suite.NewPauseManaged(testTarget)

	if err := suite.Pause.SetGloballyPaused(ctx, testOwner, true); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !managed.Paused() {
		t.Fatal("expected paused before renounce")
	}

	if err := suite.Pause.SetPauseAuthority(ctx, testOwner, managed, nil); err != nil {
		t.Fatalf("renounce hand-off failed: %v", err)
	}
	if managed.PauseAuthority() != nil {
		t.Fatal("pause authority reference not cleared")
	}
	if managed.Paused() {
		t.Fatal("component with no pause authority must never be paused")
	}
	if err := suite.Pause.SetPauseAuthority(ctx, testOwner, managed, suite.Pause); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after renounce, got %v", err)
	}

	// The renounce was recorded by both the manager and the component.
	suite.Close()
	count := 0
	for {
		select {
		case event := <-sink.Events():
			if event.Type != EventPauseAuthorityUpdated {
				continue
			}
			count++
			if event.Enabled {
				t.Fatalf("renounce event marked enabled: %+v", event)
			}
			continue
		default:
		}
		break
	}
	if count != 2 {
		t.Fatalf("expected 2 pause authority events, got %d", count)
	}
}

func TestPauseManagedWithoutAuthority(t *testing.T) {
	managed := NewPauseManaged(testTarget, nil)

	if managed.Paused() {
		t.Fatal("nil authority must mean never paused")
	}
	if err := managed.SetPauseAuthority(testOwner, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized with no authority installed, got %v", err)
	}
}

type staticPauseAuthority struct {
	addr common.Address
}

func (a *staticPauseAuthority) Addr() common.Address { return a.addr }

func (a *staticPauseAuthority) IsPaused(common.Address) bool { return true }
