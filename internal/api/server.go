// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/collections-api/internal/core/author"
	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/core/collection"
	"github.com/taibuivan/collections-api/internal/core/image"
	"github.com/taibuivan/collections-api/internal/core/label"
	"github.com/taibuivan/collections-api/internal/core/partner"
	"github.com/taibuivan/collections-api/internal/platform/config"
	"github.com/taibuivan/collections-api/internal/platform/constants"
	"github.com/taibuivan/collections-api/internal/platform/errtrack"
	"github.com/taibuivan/collections-api/internal/platform/middleware"
	"github.com/taibuivan/collections-api/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	Collection *collection.Handler
	Author     *author.Handler
	Partner    *partner.Handler
	Label      *label.Handler
	Category   *category.Handler
	Image      *image.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, reporter errtrack.Reporter, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(reporter))
	r.Use(middleware.CORS(cfg.IsDevelopment(), extraOrigins(cfg.ExtraOrigins)))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		// # Curation API
		// Every admin route needs a valid token; writes tighten the role further.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.Authenticate(verifier))
			admin.Use(middleware.RequireRole(sec.RoleReadOnly))

			h.Collection.RegisterAdminRoutes(admin)
			admin.Route("/authors", h.Author.RegisterRoutes)
			admin.Route("/partners", h.Partner.RegisterRoutes)
			admin.Route("/labels", h.Label.RegisterRoutes)
			admin.Route("/images", h.Image.RegisterRoutes)
			h.Category.RegisterRoutes(admin)
		})

		// # Public API
		h.Collection.RegisterPublicRoutes(api)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// extraOrigins splits the comma separated EXTRA_ORIGINS value.
func extraOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
