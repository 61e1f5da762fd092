// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package web wires the router, the middleware chain and the domain handlers
into a runnable [http.Server].

Architecture:

  - This package is the composition root of the HTTP layer.
  - Only this package and cmd/web start or stop the server.
*/
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/csemotors/internal/account"
	"github.com/taibuivan/csemotors/internal/inventory"
	"github.com/taibuivan/csemotors/internal/platform/config"
	"github.com/taibuivan/csemotors/internal/platform/constants"
	"github.com/taibuivan/csemotors/internal/platform/metrics"
	"github.com/taibuivan/csemotors/internal/platform/middleware"
	"github.com/taibuivan/csemotors/internal/web/view"
	"github.com/taibuivan/csemotors/pkg/slice"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Sessions is the session manager as the router needs it.
type Sessions interface {
	middleware.Sessions
	Load(next http.Handler) http.Handler
}

// Dependencies groups everything the router mounts.
type Dependencies struct {
	Sessions Sessions
	Verifier middleware.TokenVerifier
	Renderer *view.Renderer

	// Liveness and Readiness are the health handlers.
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Account   *account.Handler
	Inventory *inventory.Handler
}

// # Server Initialization

// NewServer builds the router with the full middleware chain and registers
// every route group.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, deps Dependencies) *Server {
	r := chi.NewRouter()
	resolver := middleware.NewIPResolver(cfg.TrustedProxies)

	// # Middleware Chain
	// Sessions load after recovery so a panicking store still renders the error page.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log, resolver))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RateLimit(context, deps.Renderer, resolver))
	r.Use(middleware.PanicRecovery(deps.Renderer))
	r.Use(chimw.CleanPath)
	r.Use(deps.Sessions.Load)
	r.Use(middleware.ReconcileAuth(deps.Sessions, deps.Verifier))

	// # Infrastructure Endpoints
	r.Get("/health", deps.Liveness)
	r.Get("/ready", deps.Readiness)
	r.Handle("/metrics", metrics.Handler())

	// # Static Assets
	static := view.Static()
	r.Handle("/css/*", static)
	r.Handle("/js/*", static)
	r.Handle("/images/*", static)

	// # Pages
	r.Get("/", home(deps.Renderer))
	r.Route("/inv", deps.Inventory.RegisterRoutes)
	r.Route("/account", deps.Account.RegisterRoutes)
	r.NotFound(deps.Renderer.NotFound)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func home(renderer *view.Renderer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		renderer.Render(writer, request, http.StatusOK, view.PageHome, view.Page{Title: "Home"})
	}
}

// Navigation adapts the classification list to the site navigation.
func Navigation(service *inventory.Service) view.NavSource {
	return func(ctx context.Context) ([]view.NavItem, error) {
		classifications, err := service.Classifications(ctx)
		if err != nil {
			return nil, err
		}
		return slice.Map(classifications, func(classification inventory.Classification) view.NavItem {
			return view.NavItem{ID: classification.ID, Name: classification.Name}
		}), nil
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
