// Package audit emits structured records for authentication events. Delivery
// is asynchronous: flows hand events to the Dispatcher and never block on a
// slow sink.
package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event types emitted by the auth flows.
const (
	EventSignup  = "auth.signup"
	EventLogin   = "auth.login"
	EventLogout  = "auth.logout"
	EventRefresh = "auth.refresh"
)

// Event is a single audit record.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// Sink receives emitted audit events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

// Emit implements Sink.
func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes audit events into a buffered channel, mainly for tests
// and custom consumers.
type ChannelSink struct {
	events chan Event
}

// NewChannelSink creates a ChannelSink with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan Event, buffer)}
}

// Emit implements Sink.
func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receiving side of the sink.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a JSONWriterSink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

// Emit implements Sink.
func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
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
