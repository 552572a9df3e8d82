package runhub

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func newTestConn(callerID string) *WSConn {
	return &WSConn{
		conn:     nil, // no real connection for hub tests
		callerID: callerID,
		send:     make(chan []byte, 256),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("caller-1")

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}

	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	hub := NewHub()
	c := newTestConn("caller-1")
	hub.Register(c)
	defer hub.Unregister(c)

	hub.Subscribe(c, "run-1")
	if hub.RunSubscriberCount("run-1") != 1 {
		t.Errorf("expected 1 subscriber, got %d", hub.RunSubscriberCount("run-1"))
	}

	hub.Unsubscribe(c, "run-1")
	if hub.RunSubscriberCount("run-1") != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.RunSubscriberCount("run-1"))
	}
}

func TestHubBroadcastToRun(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("caller-1")
	c2 := newTestConn("caller-2")
	c3 := newTestConn("caller-3") // not subscribed

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)
	defer hub.Unregister(c3)

	hub.Subscribe(c1, "run-1")
	hub.Subscribe(c2, "run-1")

	hub.BroadcastToRun("run-1", WSEvent{
		Type:  EventPhaseChanged,
		RunID: "run-1",
		Data:  map[string]string{"phase": "phase2"},
	})

	select {
	case msg := <-c1.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != EventPhaseChanged {
			t.Errorf("expected phase_changed, got %s", event.Type)
		}
	case <-time.After(time.Second):
		t.Error("c1 did not receive broadcast")
	}

	select {
	case <-c2.send:
		// ok
	case <-time.After(time.Second):
		t.Error("c2 did not receive broadcast")
	}

	select {
	case <-c3.send:
		t.Error("c3 should not have received broadcast")
	default:
		// ok
	}
}

func TestHubBroadcastToCaller(t *testing.T) {
	hub := NewHub()
	c1 := newTestConn("caller-1")
	c2 := newTestConn("caller-1") // same caller, two connections
	c3 := newTestConn("caller-2")

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)
	defer hub.Unregister(c3)

	hub.BroadcastToCaller("caller-1", WSEvent{
		Type:  EventActionTaken,
		RunID: "run-1",
		Data:  map[string]string{"action": "move"},
	})

	for _, c := range []*WSConn{c1, c2} {
		select {
		case <-c.send:
			// ok
		case <-time.After(time.Second):
			t.Errorf("connection for caller-1 did not receive broadcast")
		}
	}

	select {
	case <-c3.send:
		t.Error("caller-2 should not have received caller-1's message")
	default:
		// ok
	}
}

func TestHubUnregisterCleansUpSubscriptions(t *testing.T) {
	hub := NewHub()
	c := newTestConn("caller-1")
	hub.Register(c)
	hub.Subscribe(c, "run-1")
	hub.Subscribe(c, "run-2")

	hub.Unregister(c)

	if hub.RunSubscriberCount("run-1") != 0 {
		t.Errorf("expected 0 subscribers for run-1 after unregister")
	}
	if hub.RunSubscriberCount("run-2") != 0 {
		t.Errorf("expected 0 subscribers for run-2 after unregister")
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c := newTestConn("caller")
			hub.Register(c)
			hub.Subscribe(c, "run-1")
			hub.BroadcastToRun("run-1", WSEvent{Type: "test", RunID: "run-1"})
			hub.Unsubscribe(c, "run-1")
			hub.Unregister(c)
		}(i)
	}

	wg.Wait()
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after concurrent test, got %d", hub.ConnectionCount())
	}
}

func TestHubBroadcastRunEvent(t *testing.T) {
	hub := NewHub()
	c := newTestConn("caller-1")
	hub.Register(c)
	defer hub.Unregister(c)
	hub.Subscribe(c, "run-1")

	hub.BroadcastRunEvent("run-1", EventCellRevealed, map[string]any{"i": 2, "j": 3, "content": "empty"})

	select {
	case msg := <-c.send:
		var event WSEvent
		json.Unmarshal(msg, &event)
		if event.Type != EventCellRevealed {
			t.Errorf("expected cell_revealed, got %s", event.Type)
		}
		if event.RunID != "run-1" {
			t.Errorf("expected run-1, got %s", event.RunID)
		}
	case <-time.After(time.Second):
		t.Error("did not receive broadcast")
	}
}

func TestWSEventSerialization(t *testing.T) {
	event := WSEvent{
		Type:  EventRunCompleted,
		RunID: "run-42",
		Data:  map[string]any{"final_score": 18},
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed WSEvent
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Type != EventRunCompleted {
		t.Errorf("expected run_completed, got %s", parsed.Type)
	}
	if parsed.RunID != "run-42" {
		t.Errorf("expected run-42, got %s", parsed.RunID)
	}
}

func TestClientMessageSerialization(t *testing.T) {
	msg := ClientMessage{Action: "subscribe", RunID: "run-1"}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed ClientMessage
	json.Unmarshal(data, &parsed)
	if parsed.Action != "subscribe" {
		t.Errorf("expected subscribe, got %s", parsed.Action)
	}
	if parsed.RunID != "run-1" {
		t.Errorf("expected run-1, got %s", parsed.RunID)
	}
}
