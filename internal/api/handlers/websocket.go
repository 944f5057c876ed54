package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playpool/aimline/internal/session"
	"github.com/playpool/aimline/internal/ws"
)

// HandleSessionWebSocket streams a session's frames over a websocket.
func HandleSessionWebSocket(mgr *session.Manager, hub *ws.Hub) gin.HandlerFunc {
	return ws.HandleWebSocket(mgr, hub)
}
