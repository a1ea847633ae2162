package goGuard

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDispatcherStampsAndDelivers(t *testing.T) {
	sink := NewChannelSink(8)
	d := newEventDispatcher(AuditConfig{Enabled: true, BufferSize: 8}, sink)

	d.Emit(context.Background(), Event{Type: EventUserRoleUpdated, Role: 3, Enabled: true})
	d.Close()

	select {
	case event := <-sink.Events():
		if event.ID == "" {
			t.Fatal("expected generated event id")
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp")
		}
		if event.Type != EventUserRoleUpdated || event.Role != 3 {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := newEventDispatcher(AuditConfig{Enabled: false}, nil)
	if d != nil {
		t.Fatal("disabled config must produce a nil dispatcher")
	}

	// All operations are safe on nil.
	d.Emit(context.Background(), Event{Type: EventUpgraded})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestDispatcherDropsUnderBackpressure(t *testing.T) {
	block := make(chan struct{})
	sink := sinkFunc(func(ctx context.Context, event Event) {
		<-block
	})

	d := newEventDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	defer func() {
		close(block)
		d.Close()
	}()

	// One event occupies the worker, one fills the buffer; the rest must be
	// shed without blocking.
	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{Type: EventGlobalPauseUpdated})
	}

	deadline := time.Now().Add(time.Second)
	for d.Dropped() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected dropped events under backpressure")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{Type: EventUpgraded, Target: "0xabc", Impl: "0xdef", Role: -1})
	sink.Emit(context.Background(), Event{Type: EventGlobalPauseUpdated, Enabled: true, Role: -1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first.Type != EventUpgraded || first.Impl != "0xdef" {
		t.Fatalf("unexpected event %+v", first)
	}
}

type sinkFunc func(ctx context.Context, event Event)

func (f sinkFunc) Emit(ctx context.Context, event Event) { f(ctx, event) }
