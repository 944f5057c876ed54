package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/config"
)

// GetConfig returns the overlay constants clients need to draw and hit-test
// locally.
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	tuning := aim.TuningFor(cfg.PocketRadius, cfg.SnapThreshold)
	keys := make([]aim.Key, aim.NumPockets)
	for i := range keys {
		keys[i] = aim.PocketKey(i)
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"surface":          aim.Surface{Width: cfg.SurfaceWidth, Height: cfg.SurfaceHeight},
			"tuning":           tuning,
			"min_table_width":  aim.MinTableWidth,
			"min_table_height": aim.MinTableHeight,
			"corner_radius":    aim.CornerRadius,
			"line_thickness":   gin.H{"min": aim.MinLineThickness, "max": aim.MaxLineThickness},
			"opacity":          gin.H{"min": aim.MinOpacity, "max": aim.MaxOpacity},
			"pocket_keys":      keys,
		})
	}
}
