package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"econatlas/internal/config"
	"econatlas/internal/db"
	"econatlas/internal/metrics"
	"econatlas/internal/refresh"
	"econatlas/internal/server"
	"econatlas/internal/sources"
	"econatlas/internal/summary"
)

func main() {
	// Optional .env for local development; absence is fine.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	ctx := context.Background()
	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	metrics.Init()

	// Refresh pipeline wiring
	catalog := sources.NewCatalogClient(cfg.CountriesAPIURL, cfg.FetchTimeout)
	rates := sources.NewRateClient(cfg.ExchangeRatesAPIURL, cfg.FetchTimeout)
	summaryCache := summary.NewCache(database, cfg.SummaryImagePath)
	refresher := refresh.New(catalog, rates, database, summaryCache, nil)

	// HTTP server
	srv := server.New(cfg)
	srv.RegisterRoutes(database, refresher)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
