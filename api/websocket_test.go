package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketDeliversSubscribedBroadcast(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	sub := subscribeRequest{Type: "subscribe", Events: []string{string(EventState)}}
	payload, _ := json.Marshal(sub)
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Give the server goroutines time to register the subscription before
	// publishing, since subscribe-then-forward crosses two goroutines.
	time.Sleep(50 * time.Millisecond)
	s.broadcaster.Publish(BroadcastEvent{Type: EventState, Data: map[string]any{"pc": "0x1000"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("expected a broadcast event, got error: %v", err)
	}
	var evt BroadcastEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		t.Fatalf("bad event json: %v", err)
	}
	if evt.Type != EventState {
		t.Fatalf("expected state event, got %v", evt.Type)
	}
}

func TestWebSocketIgnoresUnfilteredEventTypes(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	sub := subscribeRequest{Type: "subscribe", Events: []string{string(EventBreakpoint)}}
	payload, _ := json.Marshal(sub)
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	s.broadcaster.Publish(BroadcastEvent{Type: EventState, Data: nil})
	s.broadcaster.Publish(BroadcastEvent{Type: EventBreakpoint, Data: nil})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("expected the breakpoint event, got error: %v", err)
	}
	var evt BroadcastEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		t.Fatalf("bad event json: %v", err)
	}
	if evt.Type != EventBreakpoint {
		t.Fatalf("expected only the breakpoint event to arrive, got %v", evt.Type)
	}
}
