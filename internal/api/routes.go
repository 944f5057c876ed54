package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playpool/aimline/internal/api/handlers"
	"github.com/playpool/aimline/internal/config"
	"github.com/playpool/aimline/internal/middleware"
	"github.com/playpool/aimline/internal/session"
	"github.com/playpool/aimline/internal/ws"
)

// Deps are the services the routes are wired to. Layouts may be nil, in
// which case the profile and layout routes are not registered.
type Deps struct {
	Config   *config.Config
	Sessions *session.Manager
	Hub      *ws.Hub
	Layouts  handlers.LayoutRepository
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg := d.Config

	// No-cache must come first in development
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}
	router.Use(middleware.CORSMiddleware(cfg))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(d.Sessions))
		v1.GET("/config", handlers.GetConfig(cfg))

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(d.Sessions))
			sessions.GET("/:id", handlers.GetSession(d.Sessions))
			sessions.DELETE("/:id", handlers.DeleteSession(d.Sessions))
			sessions.POST("/:id/commands", handlers.SubmitCommand(d.Sessions))
			sessions.POST("/:id/save", handlers.SaveSession(d.Sessions))
			sessions.POST("/:id/load", handlers.LoadSession(d.Sessions))
			sessions.GET("/:id/snapshot", handlers.GetSnapshot(d.Sessions))
			sessions.PUT("/:id/snapshot", handlers.PutSnapshot(d.Sessions))
			sessions.GET("/:id/preview.png", handlers.PreviewPNG(d.Sessions))
			sessions.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleSessionWebSocket(d.Sessions, d.Hub))
		}

		if d.Layouts == nil {
			log.Println("[API] no layout store configured, profile and layout routes disabled")
			return
		}

		v1.POST("/profiles", handlers.CreateProfile(d.Layouts, cfg))
		v1.POST("/profiles/login", handlers.Login(d.Layouts, cfg))

		layouts := v1.Group("/layouts", handlers.AuthMiddleware(cfg))
		{
			layouts.GET("", handlers.ListLayouts(d.Layouts))
			layouts.PUT("/:name", handlers.SaveLayout(d.Layouts, d.Sessions))
			layouts.POST("/:name/apply", handlers.ApplyLayout(d.Layouts, d.Sessions))
			layouts.DELETE("/:name", handlers.DeleteLayout(d.Layouts))
		}
	}
}
