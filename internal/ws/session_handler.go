package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/session"
)

const submitTimeout = 5 * time.Second

// HandleWebSocket upgrades GET /sessions/:id/ws and streams the session's
// frames to the client while feeding its input back into the session.
func HandleWebSocket(mgr *session.Manager, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		s, err := mgr.Get(c.Request.Context(), id)
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if err != nil {
			log.Printf("[WS] lookup of session %s failed: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		frame, err := s.Frame(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusGone, gin.H{"error": "session closed"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:       hub,
			conn:      conn,
			session:   s,
			sessionID: s.ID,
			send:      make(chan []byte, 256),
		}
		// Queued before registration; nothing else can write to send yet.
		initial, _ := json.Marshal(Message{Type: "frame", SessionID: s.ID, Frame: &frame})
		client.send <- initial
		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// leave takes the client out of its room. Once the hub has stopped there is
// nobody left to tell.
func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// readPump reads client messages until the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.leave()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] unexpected close for session %s: %v", c.sessionID, err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}
		if !c.handleMessage(msg) {
			return
		}
	}
}

// handleMessage processes one client message. It returns false once the
// session is gone.
func (c *Client) handleMessage(msg WSMessage) bool {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	if msg.Type == "get_frame" {
		frame, err := c.session.Frame(ctx)
		if err != nil {
			return c.sessionError(err)
		}
		c.sendJSON(Message{Type: "frame", SessionID: c.sessionID, Frame: &frame})
		return true
	}

	cmd, err := aim.DecodeCommand(msg.Type, msg.Data)
	if err != nil {
		c.sendError(err.Error())
		return true
	}

	// Frames for effects other than none reach the room through the hub.
	res, err := c.session.Submit(ctx, cmd)
	if err != nil {
		return c.sessionError(err)
	}
	return res.Effect != aim.EffectClose
}

func (c *Client) sessionError(err error) bool {
	if errors.Is(err, session.ErrClosed) {
		c.sendJSON(Message{Type: "closed", SessionID: c.sessionID})
		return false
	}
	log.Printf("[WS] session %s request failed: %v", c.sessionID, err)
	c.sendError(err.Error())
	return true
}
