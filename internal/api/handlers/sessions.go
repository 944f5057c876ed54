package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/render"
	"github.com/playpool/aimline/internal/session"
	"github.com/playpool/aimline/internal/ws"
)

// CreateSession starts a new overlay session. The body is optional; when
// present it may carry the surface size.
func CreateSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Surface *aim.Surface `json:"surface"`
		}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}

		s, err := mgr.Create(req.Surface)
		if errors.Is(err, session.ErrInvalidSurface) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			writeSessionError(c, "", err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()
		frame, err := s.Frame(ctx)
		if err != nil {
			writeSessionError(c, s.ID, err)
			return
		}
		c.Header("X-Session-ID", s.ID)
		c.JSON(http.StatusCreated, frameResponse{ID: s.ID, Effect: aim.EffectNone.String(), Frame: frame})
	}
}

// GetSession returns the current frame.
func GetSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := lookupSession(c, mgr)
		if s == nil {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		frame, err := s.Frame(ctx)
		if err != nil {
			writeSessionError(c, s.ID, err)
			return
		}
		c.JSON(http.StatusOK, frameResponse{ID: s.ID, Effect: aim.EffectNone.String(), Frame: frame})
	}
}

// DeleteSession stops a session without saving it.
func DeleteSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := mgr.Remove(c.Request.Context(), id); err != nil {
			writeSessionError(c, id, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// SubmitCommand applies one input command. The body uses the same
// {type, data} envelope as the websocket.
func SubmitCommand(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var msg ws.WSMessage
		if err := c.ShouldBindJSON(&msg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cmd, err := aim.DecodeCommand(msg.Type, msg.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s := lookupSession(c, mgr)
		if s == nil {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		res, err := s.Submit(ctx, cmd)
		if err != nil {
			writeSessionError(c, s.ID, err)
			return
		}
		c.JSON(http.StatusOK, newFrameResponse(s.ID, res))
	}
}

// SaveSession writes the layout to the snapshot store.
func SaveSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := lookupSession(c, mgr)
		if s == nil {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		res, err := s.Save(ctx)
		if err != nil {
			writeSessionError(c, s.ID, err)
			return
		}
		c.JSON(http.StatusOK, newFrameResponse(s.ID, res))
	}
}

// LoadSession restores the last saved layout, if any.
func LoadSession(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := lookupSession(c, mgr)
		if s == nil {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		res, err := s.Load(ctx)
		if err != nil {
			writeSessionError(c, s.ID, err)
			return
		}
		c.JSON(http.StatusOK, newFrameResponse(s.ID, res))
	}
}

// GetSnapshot returns the persisted form of the session's layout.
func GetSnapshot(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := lookupSession(c, mgr)
		if s == nil {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		data, err := s.Snapshot(ctx)
		if err != nil {
			writeSessionError(c, s.ID, err)
			return
		}
		c.Data(http.StatusOK, "application/json", data)
	}
}

// PutSnapshot applies a snapshot document to the session. Invalid fields
// are skipped and listed in the response.
func PutSnapshot(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		s := lookupSession(c, mgr)
		if s == nil {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		res, skipped, err := s.Apply(ctx, data)
		if err != nil {
			writeSessionError(c, s.ID, err)
			return
		}
		resp := newFrameResponse(s.ID, res)
		resp.Skipped = skipped
		c.JSON(http.StatusOK, resp)
	}
}

// PreviewPNG renders the current frame as a PNG. Query parameters: scale
// (default 1) and labels (pocket numbers, default false).
func PreviewPNG(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := render.Options{Scale: 1}
		if v := c.Query("scale"); v != "" {
			scale, err := strconv.ParseFloat(v, 64)
			if err != nil || scale <= 0 || scale > 4 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "scale must be in (0, 4]"})
				return
			}
			opts.Scale = scale
		}
		opts.Labels, _ = strconv.ParseBool(c.Query("labels"))

		s := lookupSession(c, mgr)
		if s == nil {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		st, err := s.State(ctx)
		if err != nil {
			writeSessionError(c, s.ID, err)
			return
		}
		_, frame := aim.Frame(st)

		var buf bytes.Buffer
		if err := render.Encode(&buf, frame, st.Surface, opts); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}
