package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are checked by middleware.WebSocketCORSCheck before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection watching a session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	session   *session.Session
	sessionID string
	send      chan []byte
}

// Hub tracks which clients watch which session and fans frames out to them.
type Hub struct {
	rooms      map[string]map[*Client]bool // sessionID -> clients
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Message is the envelope for everything sent to a client.
type Message struct {
	Type      string           `json:"type"`
	SessionID string           `json:"session_id,omitempty"`
	Frame     *aim.RenderModel `json:"frame,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// WSMessage is an incoming client message.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Run processes registrations until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.sessionID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[client.sessionID] = room
			}
			room[client] = true
			size := len(room)
			h.mu.Unlock()
			log.Printf("[WS] client joined session %s (room_size=%d)", client.sessionID, size)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.sessionID]; ok && room[client] {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, client.sessionID)
				}
				close(client.send)
				log.Printf("[WS] client left session %s", client.sessionID)
			}
			h.mu.Unlock()
		}
	}
}

// RoomSize returns how many clients watch a session.
func (h *Hub) RoomSize(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

// BroadcastToSession sends a message to every client of a session.
func (h *Hub) BroadcastToSession(sessionID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[sessionID] {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] send buffer full for a client of session %s, dropping message", sessionID)
		}
	}
}

// Frame implements session.Sink.
func (h *Hub) Frame(sessionID string, m aim.RenderModel) {
	h.BroadcastToSession(sessionID, Message{Type: "frame", SessionID: sessionID, Frame: &m})
}

// Closed implements session.Sink: it tells the room the overlay closed and
// disconnects every client in it.
func (h *Hub) Closed(sessionID string) {
	h.BroadcastToSession(sessionID, Message{Type: "closed", SessionID: sessionID})

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[sessionID] {
		close(client.send)
	}
	delete(h.rooms, sessionID)
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for session %s: %v", c.sessionID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for session %s: %v", c.sessionID, err)
				return
			}
		}
	}
}

// sendJSON queues a message for this client only. The send channel is
// closed under the hub lock once the client leaves its room, so membership
// is checked under the same lock.
func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] error marshaling message: %v", err)
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.rooms[c.sessionID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] send buffer full for session %s, dropping reply", c.sessionID)
	}
}

func (c *Client) sendError(message string) {
	c.sendJSON(Message{Type: "error", Message: message})
}
