package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/session"
)

const requestTimeout = 5 * time.Second

// frameResponse is the body returned by every session mutation.
type frameResponse struct {
	ID      string          `json:"id"`
	Effect  string          `json:"effect"`
	Frame   aim.RenderModel `json:"frame"`
	Skipped []string        `json:"skipped,omitempty"`
}

func newFrameResponse(id string, res session.Result) frameResponse {
	return frameResponse{ID: id, Effect: res.Effect.String(), Frame: res.Frame}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// lookupSession resolves the :id route parameter. It writes the error
// response and returns nil when the session does not exist.
func lookupSession(c *gin.Context, mgr *session.Manager) *session.Session {
	id := c.Param("id")
	s, err := mgr.Get(c.Request.Context(), id)
	if err != nil {
		writeSessionError(c, id, err)
		return nil
	}
	return s
}

// writeSessionError maps session errors to HTTP responses.
func writeSessionError(c *gin.Context, id string, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, session.ErrClosed):
		c.JSON(http.StatusGone, gin.H{"error": "session closed"})
	case errors.Is(err, aim.ErrMalformedSnapshot):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "session busy"})
	default:
		log.Printf("[API] session %s request failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
