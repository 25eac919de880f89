// Package server provides HTTP server management and lifecycle handling
// for the infirmary API: router setup, middleware configuration, route
// wiring and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joelgonn/enfermaria-api/auth"
	"github.com/joelgonn/enfermaria-api/config"
	"github.com/joelgonn/enfermaria-api/interfaces"
	"github.com/joelgonn/enfermaria-api/logging"
	"github.com/joelgonn/enfermaria-api/metrics"
)

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	router   chi.Router
	handler  interfaces.HTTPHandler
	verifier *auth.Verifier
	config   *config.Config
}

// NewServer creates a new server instance wired to the given handler.
func NewServer(cfg *config.Config, handler interfaces.HTTPHandler, verifier *auth.Verifier) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:   router,
		handler:  handler,
		verifier: verifier,
		config:   cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.Middleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes. Reads are open on the ward network;
// anything that writes goes through the JWT verifier.
func (s *Server) setupRoutes() {
	s.router.Get("/patients", s.handler.ListPatients)
	s.router.Get("/patients/{patientID}", s.handler.GetPatient)
	s.router.Get("/patients/{patientID}/prescriptions", s.handler.ListPrescriptions)
	s.router.Get("/prescriptions/{prescriptionID}/administrations", s.handler.ListAdministrations)
	s.router.Get("/roster", s.handler.ServeRoster)
	s.router.Get("/catalog/suggestions/{fragment}", s.handler.ServeSuggestions)
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Group(func(r chi.Router) {
		r.Use(s.verifier.Middleware)

		r.Post("/patients", s.handler.CreatePatient)
		r.Patch("/patients/{patientID}", s.handler.UpdatePatient)
		r.Delete("/patients/{patientID}", s.handler.DeletePatient)
		r.Post("/patients/{patientID}/prescriptions", s.handler.CreatePrescription)
		r.Delete("/prescriptions/{prescriptionID}", s.handler.DeletePrescription)
		r.Post("/prescriptions/{prescriptionID}/administrations", s.handler.RecordAdministration)
		r.Post("/conflicts/check", s.handler.CheckConflict)
	})
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		fmt.Println("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			fmt.Println("Profiling server failed: ", err)
		}
	}()
}
