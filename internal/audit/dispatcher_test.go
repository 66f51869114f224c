package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestDispatcherDeliversEvents(t *testing.T) {
	sink := NewChannelSink(4)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	defer d.Close()

	d.Emit(context.Background(), Event{EventType: EventLogin, UserID: "u-1", Success: true})

	select {
	case event := <-sink.Events():
		if event.EventType != EventLogin || event.UserID != "u-1" || !event.Success {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestDispatcherCloseFlushesBuffer(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, NewJSONWriterSink(&buf))

	for i := 0; i < 3; i++ {
		d.Emit(context.Background(), Event{EventType: EventRefresh, Success: true})
	}
	d.Close()

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	if lines != 3 {
		t.Fatalf("flushed %d events, want 3", lines)
	}

	var event Event
	if err := json.Unmarshal(bytes.Split(buf.Bytes(), []byte("\n"))[0], &event); err != nil {
		t.Fatalf("sink output is not JSON lines: %v", err)
	}
}

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *Dispatcher
	d.Emit(context.Background(), Event{EventType: EventLogout})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	if d := NewDispatcher(Config{Enabled: false}, NoOpSink{}); d != nil {
		t.Fatal("disabled config must return nil dispatcher")
	}
}
