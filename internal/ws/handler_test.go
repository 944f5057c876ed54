package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playpool/aimline/internal/session"
	"github.com/playpool/aimline/internal/store"
)

func startServer(t *testing.T) (*httptest.Server, *session.Manager, *Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	mgr := session.NewManager(session.Options{Snapshots: store.NewMemoryStore(), Sink: hub})
	r := gin.New()
	r.GET("/sessions/:id/ws", HandleWebSocket(mgr, hub))
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		srv.Close()
		mgr.Shutdown(context.Background())
		cancel()
	})
	return srv, mgr, hub
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var m Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func waitForRoom(t *testing.T, hub *Hub, id string, size int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(id) != size {
		if time.Now().After(deadline) {
			t.Fatalf("room %s has %d clients, want %d", id, hub.RoomSize(id), size)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketStreamsFrames(t *testing.T) {
	srv, mgr, hub := startServer(t)
	s, _ := mgr.Create(nil)

	a := dial(t, srv, s.ID)
	if m := readMessage(t, a); m.Type != "frame" || m.Frame == nil || m.Frame.Locked {
		t.Fatalf("initial message = %+v, want unlocked frame", m)
	}
	b := dial(t, srv, s.ID)
	readMessage(t, b)
	waitForRoom(t, hub, s.ID, 2)

	if err := a.WriteJSON(map[string]interface{}{"type": "key_pressed", "data": map[string]string{"key": "toggle_lock"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for name, conn := range map[string]*websocket.Conn{"sender": a, "watcher": b} {
		m := readMessage(t, conn)
		if m.Type != "frame" || m.Frame == nil || !m.Frame.Locked {
			t.Errorf("%s got %+v, want locked frame", name, m)
		}
	}

	a.WriteJSON(map[string]interface{}{"type": "get_frame"})
	if m := readMessage(t, a); m.Type != "frame" || !m.Frame.Locked {
		t.Errorf("get_frame reply = %+v", m)
	}
}

func TestWebSocketRejectsBadCommands(t *testing.T) {
	srv, mgr, _ := startServer(t)
	s, _ := mgr.Create(nil)
	conn := dial(t, srv, s.ID)
	readMessage(t, conn)

	conn.WriteJSON(map[string]interface{}{"type": "take_shot", "data": map[string]float64{"power": 1}})
	if m := readMessage(t, conn); m.Type != "error" || m.Message == "" {
		t.Errorf("got %+v, want error", m)
	}
}

func TestWebSocketEscapeClosesRoom(t *testing.T) {
	srv, mgr, hub := startServer(t)
	s, _ := mgr.Create(nil)
	conn := dial(t, srv, s.ID)
	readMessage(t, conn)
	waitForRoom(t, hub, s.ID, 1)

	conn.WriteJSON(map[string]interface{}{"type": "key_pressed", "data": map[string]string{"key": "cancel"}})
	if m := readMessage(t, conn); m.Type != "frame" {
		t.Errorf("first message = %+v, want final frame", m)
	}
	if m := readMessage(t, conn); m.Type != "closed" {
		t.Errorf("second message = %+v, want closed", m)
	}
	waitForRoom(t, hub, s.ID, 0)
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
	if mgr.Count() != 0 {
		t.Errorf("manager still holds %d sessions", mgr.Count())
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _, _ := startServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/aim_missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial to unknown session succeeded")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Errorf("response = %v, want 404", resp)
	}
}

func TestLeaveAfterHubStops(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	left := make(chan struct{})
	go func() {
		(&Client{hub: hub, sessionID: "aim_gone", send: make(chan []byte, 1)}).leave()
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(2 * time.Second):
		t.Fatal("leave blocked on a stopped hub")
	}
}

func TestWebSocketAfterHubStops(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	mgr := session.NewManager(session.Options{Snapshots: store.NewMemoryStore(), Sink: hub})
	t.Cleanup(func() { mgr.Shutdown(context.Background()) })
	r := gin.New()
	r.GET("/sessions/:id/ws", HandleWebSocket(mgr, hub))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	s, _ := mgr.Create(nil)
	conn := dial(t, srv, s.ID)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("server kept a connection it could not register")
	}
	if hub.RoomSize(s.ID) != 0 {
		t.Errorf("room size = %d, want 0", hub.RoomSize(s.ID))
	}
}
