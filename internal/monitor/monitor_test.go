package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestServerBroadcastsToConnectedClients(t *testing.T) {
	srv := New(Config{PingInterval: time.Hour, WriteTimeout: time.Second, SendBuffer: 10})

	// Drive the handler directly through an httptest server so the test
	// doesn't depend on a real TCP listener from Start.
	ts := httptest.NewServer(http.HandlerFunc(srv.handleConnection))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read hello: %v", err)
	}
	var hello Message
	if err := json.Unmarshal(data, &hello); err != nil {
		t.Fatalf("unmarshal hello: %v", err)
	}
	if hello.Type != MsgTypeHello {
		t.Fatalf("expected hello message, got %s", hello.Type)
	}

	waitForCount(t, srv, 1)

	type recordPayload struct {
		Zone int `json:"zone"`
	}
	if err := srv.Broadcast(MsgTypeRecord, recordPayload{Zone: 2}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	_, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MsgTypeRecord {
		t.Fatalf("expected record message, got %s", msg.Type)
	}
	var payload recordPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Zone != 2 {
		t.Fatalf("expected zone 2, got %d", payload.Zone)
	}
}

func waitForCount(t *testing.T, s *Bridge, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.ConnectionCount() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d connections", n)
}
