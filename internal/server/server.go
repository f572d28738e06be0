// Package server wires the router, middleware and dependencies together and
// runs the HTTP server.
//
// Dependency chain, built once in New:
//
//	config → directory.Client ─┐
//	       → completion.Client ┼→ services → handlers → routes
//	       → sqlite.DB ────────┘
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/profile-explorer/internal/completion"
	"github.com/sakif/profile-explorer/internal/config"
	"github.com/sakif/profile-explorer/internal/device"
	"github.com/sakif/profile-explorer/internal/directory"
	"github.com/sakif/profile-explorer/internal/handler"
	"github.com/sakif/profile-explorer/internal/metrics"
	"github.com/sakif/profile-explorer/internal/middleware"
	sqliteRepo "github.com/sakif/profile-explorer/internal/repository/sqlite"
	"github.com/sakif/profile-explorer/internal/service"
)

const (
	upstreamTimeout = 30 * time.Second
	shutdownTimeout = 30 * time.Second

	// The analyze route waits on two upstream calls in sequence, so it needs
	// more write time than the default.
	writeTimeout = 2*upstreamTimeout + 5*time.Second
)

// Server owns the router and the database connection.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	metrics *metrics.Metrics
}

func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on the way out.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes registers:
//
//	GET    /healthz
//	GET    /metrics
//	POST   /analyze                               (alias /api/analyze)
//	GET    /api/users/{handle}
//	GET    /api/users/{handle}/repos
//	GET    /api/compare?left=&right=
//	GET    /api/notes
//	GET    /api/notes/profile/{handle}            (PUT, DELETE)
//	GET    /api/notes/repository/{owner}/{name}   (PUT, DELETE)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics(s.metrics))

	dir, err := directory.New(s.config.Directory.BaseURL, &http.Client{
		Timeout:   upstreamTimeout,
		Transport: s.metrics.Transport(metrics.APIDirectory, http.DefaultTransport),
	}, s.logger)
	if err != nil {
		return fmt.Errorf("creating directory client: %w", err)
	}

	completer := completion.New(
		s.config.CompletionClientConfig(),
		s.metrics.Transport(metrics.APICompletion, http.DefaultTransport),
		s.logger,
	)
	if s.config.Completion.APIKey == "" {
		s.logger.Warn("OPENROUTER_API_KEY is not set; /analyze will fail upstream")
	}

	policy, err := service.ParseJoinPolicy(s.config.Compare.JoinPolicy)
	if err != nil {
		return err
	}

	tokens, err := s.deviceTokens()
	if err != nil {
		return err
	}

	profileService := service.NewProfileService(dir, s.config.Directory.ListingPageSize, s.logger)
	compareService := service.NewCompareService(profileService, policy, s.logger)
	analysisService := service.NewAnalysisService(dir, completer, s.config.Directory.NarrativePageSize, s.logger)
	noteService := service.NewNoteService(s.db, s.logger)

	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	compareHandler := handler.NewCompareHandler(compareService, s.logger)
	analyzeHandler := handler.NewAnalyzeHandler(analysisService, s.logger)
	noteHandler := handler.NewNoteHandler(noteService, s.logger)

	s.router.Get("/healthz", handler.HandleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	s.router.Post("/analyze", analyzeHandler.HandleAnalyze)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", analyzeHandler.HandleAnalyze)

		r.Get("/users/{handle}", profileHandler.HandleGet)
		r.Get("/users/{handle}/repos", profileHandler.HandleRepositories)
		r.Get("/compare", compareHandler.HandleCompare)

		r.Route("/notes", func(r chi.Router) {
			r.Use(device.Identify(tokens, s.logger))

			r.Get("/", noteHandler.HandleList)

			r.Route("/profile/{handle}", func(r chi.Router) {
				r.Get("/", noteHandler.HandleGet)
				r.Put("/", noteHandler.HandleSave)
				r.Delete("/", noteHandler.HandleDelete)
			})
			r.Route("/repository/{owner}/{name}", func(r chi.Router) {
				r.Get("/", noteHandler.HandleGet)
				r.Put("/", noteHandler.HandleSave)
				r.Delete("/", noteHandler.HandleDelete)
			})
		})
	})

	return nil
}

// deviceTokens uses the configured secret or, failing that, a random one
// that lives as long as the process.
func (s *Server) deviceTokens() (*device.Tokens, error) {
	secret := s.config.DeviceSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generating device secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		s.logger.Warn("DEVICE_SECRET is not set; device cookies will not survive a restart")
	}

	tokens, err := device.NewTokens(secret)
	if err != nil {
		return nil, fmt.Errorf("creating device tokens: %w", err)
	}
	return tokens, nil
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.String("directory", s.config.Directory.BaseURL),
			slog.String("model", s.config.Completion.Model),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
