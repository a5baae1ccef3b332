package main

import (
	"log"

	"github.com/lachdunc/health-coach/internal/config"
	"github.com/lachdunc/health-coach/internal/seed"
)

func main() {
	cfg := config.Load()

	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, cfg.Location()); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
}
