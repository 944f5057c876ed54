package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playpool/aimline/internal/session"
	"github.com/playpool/aimline/internal/store"
)

const maxLayoutName = 64

type layoutRequest struct {
	SessionID string `json:"session_id"`
}

func layoutName(c *gin.Context) (string, bool) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" || len(name) > maxLayoutName {
		c.JSON(http.StatusBadRequest, gin.H{"error": "layout name must be 1-64 characters"})
		return "", false
	}
	return name, true
}

// bindLayoutSession reads {session_id} and resolves the session.
func bindLayoutSession(c *gin.Context, mgr *session.Manager) *session.Session {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id required"})
		return nil
	}
	s, err := mgr.Get(c.Request.Context(), req.SessionID)
	if err != nil {
		writeSessionError(c, req.SessionID, err)
		return nil
	}
	return s
}

// ListLayouts returns the caller's saved layouts.
func ListLayouts(repo LayoutRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := c.GetInt("profile_id")
		layouts, err := repo.ListLayouts(c.Request.Context(), profileID)
		if err != nil {
			log.Printf("[API] list layouts for profile %d failed: %v", profileID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"layouts": layouts})
	}
}

// SaveLayout stores the current layout of a session under a name.
func SaveLayout(repo LayoutRepository, mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, ok := layoutName(c)
		if !ok {
			return
		}
		s := bindLayoutSession(c, mgr)
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

		profileID := c.GetInt("profile_id")
		layout, err := repo.SaveLayout(ctx, profileID, name, data)
		if err != nil {
			log.Printf("[API] save layout %q for profile %d failed: %v", name, profileID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"layout": layout})
	}
}

// ApplyLayout restores a saved layout onto a session.
func ApplyLayout(repo LayoutRepository, mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, ok := layoutName(c)
		if !ok {
			return
		}
		s := bindLayoutSession(c, mgr)
		if s == nil {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()
		profileID := c.GetInt("profile_id")
		layout, err := repo.GetLayout(ctx, profileID, name)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "layout not found"})
			return
		}
		if err != nil {
			log.Printf("[API] get layout %q for profile %d failed: %v", name, profileID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		res, skipped, err := s.Apply(ctx, layout.Snapshot)
		if err != nil {
			writeSessionError(c, s.ID, err)
			return
		}
		resp := newFrameResponse(s.ID, res)
		resp.Skipped = skipped
		c.JSON(http.StatusOK, resp)
	}
}

// DeleteLayout removes one of the caller's layouts.
func DeleteLayout(repo LayoutRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, ok := layoutName(c)
		if !ok {
			return
		}
		profileID := c.GetInt("profile_id")
		err := repo.DeleteLayout(c.Request.Context(), profileID, name)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "layout not found"})
			return
		}
		if err != nil {
			log.Printf("[API] delete layout %q for profile %d failed: %v", name, profileID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
