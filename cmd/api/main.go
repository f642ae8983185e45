package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"outreach/internal/app"
	"outreach/internal/config"
	"outreach/internal/handler"
	"outreach/internal/middleware"
	"outreach/internal/service"
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

	healthSvc := service.NewHealthService(db, cfg.GetRabbitMQURL(), "1.0.0")

	engineHandler := handler.NewEngineHandler(engine)
	healthHandler := handler.NewHealthHandler(healthSvc)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.HandleFunc("/engine/run", engineHandler.RunPass).Methods("POST")
	router.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	port := ":" + cfg.Server.Port
	log.Printf("API server starting on port %s (env: %s)", port, cfg.Env)

	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
