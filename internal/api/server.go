// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the hosting middleware, the request pipeline and all page
handlers into a runnable [http.Server].

Architecture:

  - This package is the composition root of the HTTP surface.
  - net/http middleware (request id, tracing, logging, timeout, rate limit,
    panic recovery) wraps the pipeline; everything inside runs as pipeline
    stages so the exception interceptor sees every fault.
  - Only this package and cmd/web construct the server.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/taibuivan/dashboard/internal/auth"
	"github.com/taibuivan/dashboard/internal/platform/apperr"
	"github.com/taibuivan/dashboard/internal/platform/config"
	"github.com/taibuivan/dashboard/internal/platform/constants"
	"github.com/taibuivan/dashboard/internal/platform/middleware"
	"github.com/taibuivan/dashboard/internal/platform/pipeline"
	"github.com/taibuivan/dashboard/internal/web"
)

// # Server Definitions

// Server wraps the composed handler and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	log        *slog.Logger
}

// Sessions is what the server needs from the authentication service: the form
// use cases and the per-request session check.
type Sessions interface {
	auth.Authenticator
	middleware.SessionVerifier
}

// Options groups the injected dependencies of [NewServer].
type Options struct {
	// Sessions backs the auth pages and the session cookie check.
	Sessions Sessions

	// Health holds the readiness checkers. Nil checkers are skipped.
	Health HealthDependencies

	// Filters holds extra pipeline filters. It is frozen when the server is built.
	Filters *pipeline.Registry
}

// # Server Initialization

// NewServer builds the pipeline and the hosting chain around it.
//
// # Hosting Chain (outermost first)
//
//	RequestID → otelhttp → StructuredLogger → Timeout → RateLimit → PanicRecovery → pipeline
//
// # Pipeline (default configuration)
//
//	ExceptionInterceptor → HSTS (production) → Authenticate → router (CleanPath)
//
// Registered filters prepend or append around that configuration.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, options Options) (*Server, error) {
	views, err := web.NewViews()
	if err != nil {
		return nil, err
	}

	pages := web.NewHandler(views)
	router := newRouter(cfg, log, pages, options)

	configure := func(builder *pipeline.Builder) {
		builder.Use(pipeline.ExceptionInterceptor(pipeline.InterceptorOptions{
			Environment: cfg.Environment,
			Renderer:    pipeline.ReExecute(cfg.ErrorPath),
			Logger:      log,
		}))
		if cfg.IsProduction() {
			builder.Use(middleware.HSTS(constants.HSTSMaxAge))
		}
		builder.Use(pipeline.FromHTTP(middleware.Authenticate(options.Sessions, constants.SessionCookieName)))
	}

	var filters []pipeline.Filter
	if cfg.PathBase != "" {
		filters = append(filters, pipeline.PathBaseFilter(cfg.PathBase))
	}
	if options.Filters != nil {
		filters = append(filters, options.Filters.Freeze()...)
	}

	handler := chi.Chain(
		middleware.RequestID(),
		otelhttp.NewMiddleware(constants.AppName),
		middleware.StructuredLogger(log),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		middleware.PanicRecovery,
	).Handler(pipeline.Serve(cfg.Environment, pipeline.Build(filters, configure, pipeline.Terminal(router))))

	return &Server{
		handler: handler,
		log:     log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           handler,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}, nil
}

// newRouter registers every route group on a fresh chi router.
func newRouter(cfg *config.Config, log *slog.Logger, pages *web.Handler, options Options) *chi.Mux {
	router := chi.NewRouter()

	// CleanPath rewrites the chi route path, so it must run inside the Mux
	router.Use(chimw.CleanPath)

	// Unknown routes and methods become explicit-status faults
	router.NotFound(pipeline.Adapt(func(c *pipeline.Context) error {
		return apperr.NotFound("Page")
	}))
	router.MethodNotAllowed(pipeline.Adapt(func(c *pipeline.Context) error {
		return apperr.MethodNotAllowed(c.Method())
	}))

	// # Infrastructure Endpoints
	liveness, readiness := NewHealthHandlers(options.Health, log)
	router.Get("/health", liveness)
	router.Get("/ready", readiness)

	// # Pages
	pages.Register(router, cfg.ErrorPath)
	auth.NewHandler(options.Sessions, pages, auth.CookieOptions{
		Name:   constants.SessionCookieName,
		Path:   "/",
		Secure: cfg.IsProduction(),
	}).Register(router)

	return router
}

// Handler returns the fully composed handler, hosting chain included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
