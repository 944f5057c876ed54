package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/playpool/aimline/internal/config"
	"github.com/playpool/aimline/internal/database"
	"github.com/playpool/aimline/internal/store"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	name := os.Getenv("PROFILE_NAME")
	if name == "" {
		name = "default"
		log.Printf("Using default profile name: %s", name)
	}

	pin := os.Getenv("PROFILE_PIN")
	if pin == "" {
		pin = "0000"
		log.Printf("WARNING: Using default PIN. Set PROFILE_PIN env var in production!")
	}

	p, err := store.NewLayoutStore(db).UpsertProfile(ctx, name, pin)
	if err != nil {
		log.Fatalf("Failed to create profile: %v", err)
	}

	log.Printf("Profile created/updated successfully")
	log.Printf("  ID: %d", p.ID)
	log.Printf("  Name: %s", p.Name)
	log.Println("Log in with POST /api/v1/profiles/login")
}
