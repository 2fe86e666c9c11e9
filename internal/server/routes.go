package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"econatlas/internal/db"
	"econatlas/internal/handlers"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, refresher handlers.Refresher) {
	countryHandler := handlers.NewCountryHandler(database)
	refreshHandler := handlers.NewRefreshHandler(refresher, s.Cfg.SummaryImagePath)
	healthHandler := handlers.NewHealthHandler(database)

	// Refresh pipeline and its derived artifact
	s.App.Post("/countries/refresh", refreshHandler.Refresh)
	s.App.Get("/countries/summary.png", refreshHandler.SummaryImage)

	// Read API
	s.App.Get("/countries", countryHandler.List)
	s.App.Get("/countries/:name", countryHandler.Get)
	s.App.Delete("/countries/:name", countryHandler.Delete)
	s.App.Get("/status", countryHandler.Status)

	// Operational endpoints
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
