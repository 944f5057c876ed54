package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/aimline/internal/aim"
	"github.com/playpool/aimline/internal/api"
	"github.com/playpool/aimline/internal/config"
	"github.com/playpool/aimline/internal/database"
	"github.com/playpool/aimline/internal/migrations"
	"github.com/playpool/aimline/internal/redis"
	"github.com/playpool/aimline/internal/session"
	"github.com/playpool/aimline/internal/store"
	"github.com/playpool/aimline/internal/ws"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	migrationsDir   = "migrations"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := session.Options{
		Surface: aim.Surface{Width: cfg.SurfaceWidth, Height: cfg.SurfaceHeight},
		Tuning:  aim.TuningFor(cfg.PocketRadius, cfg.SnapThreshold),
	}
	deps := api.Deps{Config: cfg}

	// Database (profiles and layouts)
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	db, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Printf("[DB] unavailable, layouts disabled: %v", err)
	} else {
		defer db.Close()
		if cfg.MigrateOnStart {
			log.Println("[MIGRATE] running DB migrations on startup")
			if err := migrations.RunMigrations(cfg.DatabaseURL, migrationsDir); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
		deps.Layouts = store.NewLayoutStore(db)
	}

	hub := ws.NewHub()
	go hub.Run(ctx)
	opts.Sink = hub

	// Redis (saved snapshots, parked sessions, frame fan-out)
	connectCtx, cancel = context.WithTimeout(ctx, connectTimeout)
	rdb, err := redis.Connect(connectCtx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Printf("[REDIS] unavailable, saving to %s and keeping sessions in memory: %v", cfg.ConfigFile, err)
		opts.Snapshots = store.NewFileStore(cfg.ConfigFile)
	} else {
		defer rdb.Close()
		ttl := time.Duration(cfg.SessionCacheTTLMinutes) * time.Minute
		opts.Snapshots = store.NewRedisStore(rdb, "aim:saved", 0)
		opts.Parking = store.NewRedisStore(rdb, "aim:parked", ttl)

		relay := ws.NewRedisRelay(rdb, hub)
		relay.Subscribe(ctx)
		opts.Sink = relay
	}

	mgr := session.NewManager(opts)
	deps.Sessions = mgr
	deps.Hub = hub
	mgr.StartIdleSweeper(ctx,
		time.Duration(cfg.SessionIdleMinutes)*time.Minute,
		time.Duration(cfg.IdleSweepSeconds)*time.Second)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, deps)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Printf("Starting aimline server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	mgr.Shutdown(shutdownCtx)
	log.Printf("Parked all sessions, bye")
}
