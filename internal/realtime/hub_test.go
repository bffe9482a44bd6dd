package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		ServeWS(hub, conn, "test-client")
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// newServerClient upgrades a loopback connection and returns the
// server-side client without starting its pumps.
func newServerClient(t *testing.T, hub *Hub) *Client {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { peer.Close() })

	select {
	case conn := <-connCh:
		return NewClient(conn, hub, "test-client")
	case <-time.After(2 * time.Second):
		t.Fatal("no server-side connection")
		return nil
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := dialTestHub(t, hub)
	waitForClients(t, hub, 1)

	hub.Broadcast(&Message{
		Type: EventAction,
		Data: map[string]interface{}{"session_id": "s1"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("bad message: %v", err)
	}
	if msg.Type != EventAction {
		t.Fatalf("expected %s, got %s", EventAction, msg.Type)
	}
	if msg.Data["session_id"] != "s1" {
		t.Fatalf("unexpected payload: %v", msg.Data)
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}

func TestHubPingPong(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := dialTestHub(t, hub)
	waitForClients(t, hub, 1)

	if err := conn.WriteJSON(&Message{Type: "ping"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != "pong" {
		t.Fatalf("expected pong, got %s", msg.Type)
	}
}

func TestHubClientDisconnect(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := dialTestHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestPingAfterShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := newServerClient(t, hub)
	hub.register <- c
	waitForClients(t, hub, 1)

	cancel()
	<-stopped

	// A ping already in flight when the hub stopped must be absorbed,
	// not crash the process.
	c.handlePing()
	c.handlePing()
}

func TestReadPumpExitsAfterShutdown(t *testing.T) {
	hub := NewHub() // never run, so unregister has no receiver
	c := newServerClient(t, hub)

	// Simulate the hub's shutdown teardown, then let readPump hit its
	// read error and unregister path.
	c.Close()

	done := make(chan struct{})
	go func() {
		c.readPump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("readPump blocked on unregister after shutdown")
	}
}

func TestBroadcastWithoutRun(t *testing.T) {
	hub := NewHub()
	// Must not block or panic when the hub is idle.
	hub.Broadcast(&Message{Type: EventSessionCreated})
	if hub.ClientCount() != 0 {
		t.Fatal("expected no clients")
	}
}
