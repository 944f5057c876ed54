package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Overlay
	ConfigFile    string
	SurfaceWidth  float64
	SurfaceHeight float64
	PocketRadius  float64
	SnapThreshold float64

	// Sessions
	SessionIdleMinutes     int
	SessionCacheTTLMinutes int
	IdleSweepSeconds       int

	// Security
	JWTSecret string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),

		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/aimline?sslmode=disable"),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		ConfigFile:    getEnv("CONFIG_FILE", "pf_config.json"),
		SurfaceWidth:  getEnvFloat("SURFACE_WIDTH", 1200),
		SurfaceHeight: getEnvFloat("SURFACE_HEIGHT", 800),
		PocketRadius:  getEnvFloat("POCKET_RADIUS", 14),
		SnapThreshold: getEnvFloat("SNAP_THRESHOLD", 24),

		SessionIdleMinutes:     getEnvInt("SESSION_IDLE_MINUTES", 30),
		SessionCacheTTLMinutes: getEnvInt("SESSION_CACHE_TTL_MINUTES", 24*60),
		IdleSweepSeconds:       getEnvInt("IDLE_SWEEP_SECONDS", 60),

		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}
