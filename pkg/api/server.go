// Package api exposes the GBKF codec and document archive over HTTP.
//
// All /api/v1 routes require an X-API-Key header. The /metrics endpoint
// is unprotected so Prometheus can scrape it.
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the full route tree for the given server and metrics.
func NewRouter(server *Server, metrics *Metrics) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Document operations
		r.Post("/documents/inspect", metrics.InstrumentHandler("POST", "/api/v1/documents/inspect", server.handleInspect))
		r.Post("/documents/validate", metrics.InstrumentHandler("POST", "/api/v1/documents/validate", server.handleValidate))
		r.Post("/documents", metrics.InstrumentHandler("POST", "/api/v1/documents", server.handleStore))
		r.Get("/documents/{id}", metrics.InstrumentHandler("GET", "/api/v1/documents/{id}", server.handleFetch))
		r.Delete("/documents/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/documents/{id}", server.handleDelete))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(archive IArchive, config ServerConfig) error {
	metrics := NewMetrics(prometheus.DefaultRegisterer)
	server := NewServer(archive, config, metrics)

	r := NewRouter(server, metrics)

	// Background archive gauge updater
	go server.startMetricsUpdater()

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting GBKF REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))

	return nil
}
