package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"outreach/internal/app"
	"outreach/internal/config"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	engine, conn := app.BuildEngine(cfg, db)
	if conn != nil {
		defer conn.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Overlapping passes are safe: the claim step keeps two passes from
	// dispatching the same enrollment step.
	runner := cron.New()
	_, err = runner.AddFunc(cfg.Engine.Interval, func() {
		processed, err := engine.RunPass(ctx)
		if err != nil {
			log.Printf("Pass failed: %v", err)
			return
		}
		if processed > 0 {
			log.Printf("Pass complete, processed %d enrollment(s)", processed)
		}
	})
	if err != nil {
		log.Fatalf("Invalid ENGINE_INTERVAL %q: %v", cfg.Engine.Interval, err)
	}

	runner.Start()
	log.Printf("Engine started, running passes on %q", cfg.Engine.Interval)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	<-runner.Stop().Done()
	log.Println("Engine stopped")
}
