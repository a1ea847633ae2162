package goGuard

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// EventType names a state transition recorded in the event log.
type EventType string

const (
	EventUserRoleUpdated         EventType = "user_role_updated"
	EventRoleCapabilityUpdated   EventType = "role_capability_updated"
	EventPublicCapabilityUpdated EventType = "public_capability_updated"
	EventClosedCapabilityUpdated EventType = "closed_capability_updated"
	EventAuthorityUpdated        EventType = "authority_updated"
	EventPauseAuthorityUpdated   EventType = "pause_authority_updated"
	EventGlobalPauseUpdated      EventType = "global_pause_updated"
	EventTargetPauseUpdated      EventType = "target_pause_updated"
	EventOwnershipTransferred    EventType = "ownership_transferred"
	EventUpgraded                EventType = "upgraded"
	EventAttestationMinted       EventType = "attestation_minted"
)

// Event is one append-only record of a successful state transition. Failed
// operations emit nothing; the event log is an audit trail, not control
// flow.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"event_type"`
	User      string    `json:"user,omitempty"`
	Target    string    `json:"target,omitempty"`
	Selector  string    `json:"selector,omitempty"`
	Role      int       `json:"role"`
	Enabled   bool      `json:"enabled"`
	Authority string    `json:"authority,omitempty"`
	Owner     string    `json:"owner,omitempty"`
	Impl      string    `json:"implementation,omitempty"`
}

// EventSink consumes emitted events. Sinks must tolerate concurrent Emit
// calls.
type EventSink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit discards the event.
func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink buffers events on a channel for in-process consumers.
type ChannelSink struct {
	events chan Event
}

// NewChannelSink returns a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

// Emit queues the event, giving up when ctx is done.
func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events returns the receive side of the sink.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink appends one JSON object per line to a writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink wraps w. The sink serializes writes; w itself need not
// be concurrency-safe.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit writes the event as one JSON line.
func (s *JSONWriterSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
