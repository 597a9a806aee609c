package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"docqa/internal/api/handlers"
	"docqa/internal/config"
	"docqa/internal/ingest"
	"docqa/internal/query"
	"docqa/internal/vectorstore"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, store vectorstore.Store, orchestrator *ingest.Orchestrator, engine *query.Engine, logger *zap.Logger) *Server {
	uploadHandler := handlers.NewUploadHandler(orchestrator, logger)
	queryHandler := handlers.NewQueryHandler(engine, logger)
	docHandler := handlers.NewDocumentHandler(store, logger)
	healthHandler := handlers.NewHealthHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler.Health)
	r.Route("/api", func(api chi.Router) {
		api.Post("/upload", uploadHandler.Upload)
		api.Post("/query", queryHandler.Query)
		api.Get("/documents", docHandler.ListDocuments)
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, logger: logger}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
