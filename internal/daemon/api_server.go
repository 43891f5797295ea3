// Package daemon serves the HTTP API and the streamable MCP endpoint.
package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/api"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
)

// huma reports every handler error through a package level hook.
var installErrorHandler sync.Once

// APIServer manages the HTTP API.
// NewAPIServer should be used to create instances of APIServer.
type APIServer struct {
	logger          hclog.Logger
	deps            APIDependencies
	addr            string
	cors            CORSConfig
	shutdownTimeout time.Duration
	version         string
}

// NewAPIServer creates a new API server with the provided dependencies and options.
func NewAPIServer(deps APIDependencies, opt ...APIOption) (*APIServer, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for API server: %w", err)
	}

	apiOpts, err := NewAPIOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid API options: %w", err)
	}

	return &APIServer{
		logger:          deps.Logger.Named("api"),
		deps:            deps,
		addr:            deps.Addr,
		cors:            apiOpts.CORS,
		shutdownTimeout: apiOpts.ShutdownTimeout,
		version:         apiOpts.Version,
	}, nil
}

// Handler builds the router: REST routes under /api/v1 and the MCP endpoint.
func (a *APIServer) Handler() (http.Handler, string, error) {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Recoverer)

	if a.cors.Enabled {
		a.applyCORS(mux)
	}

	installErrorHandler.Do(func() {
		huma.NewErrorWithContext = errorHandler(a.logger)
	})

	config := huma.DefaultConfig("mcp-installer API", a.version)
	router := humachi.New(mux, config)

	prefix, err := api.RegisterRoutes(router, a.deps.Service, a.deps.Registry)
	if err != nil {
		return nil, "", err
	}

	mux.Handle("/mcp", a.deps.MCP)

	return mux, prefix, nil
}

// Start starts the API server and blocks until the context is canceled or an error occurs.
func (a *APIServer) Start(ctx context.Context) error {
	handler, prefix, err := a.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting API server", "address", a.addr, "prefix", prefix, "mcp", "/mcp")
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down API server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("API server shutdown: %w", err)
		}
		a.logger.Info("Shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// applyCORS applies CORS middleware to the router based on the configured options.
func (a *APIServer) applyCORS(mux *chi.Mux) {
	a.logger.Info("Enabling CORS", "origins", a.cors.AllowOrigins)

	corsOptions := cors.Options{
		AllowedOrigins:   slices.Clone(a.cors.AllowOrigins),
		AllowedMethods:   a.cors.AllowMethods,
		AllowedHeaders:   a.cors.AllowedHeaders,
		ExposedHeaders:   []string{"Mcp-Session-Id"},
		AllowCredentials: a.cors.AllowCredentials,
		MaxAge:           int(a.cors.MaxAge.Seconds()),
	}

	// Credentials are never sent to a wildcard origin.
	if slices.Contains(corsOptions.AllowedOrigins, "*") {
		corsOptions.AllowedOrigins = []string{"*"}
		corsOptions.AllowCredentials = false
	}

	mux.Use(cors.Handler(corsOptions))
}

// mapError maps application domain errors to appropriate HTTP status codes.
//
// This function is the central place where domain errors from internal/errors are converted to HTTP responses.
// When adding new errors to internal/errors/errors.go, you MUST add them here to prevent them from falling
// through to the default case which returns HTTP 500.
//
// Mapping guidelines:
//   - 400: Client errors (bad input, ambiguous identifiers, invalid declarations)
//   - 404: Resource not found errors
//   - 422: Well formed requests that cannot be satisfied
//   - 502: Registry failures
//   - 500: Unexpected internal errors (default case)
//
// ErrServerNotFound is checked before ErrRegistryUnavailable since a registry 404 carries both.
func mapError(logger hclog.Logger, err error) huma.StatusError {
	switch {
	case stdErrors.Is(err, errors.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrDeclarationInvalid):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrServerNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrUnresolvedIdentifiers):
		return huma.Error422UnprocessableEntity(err.Error())
	case stdErrors.Is(err, errors.ErrNoUsablePackage):
		return huma.Error422UnprocessableEntity(err.Error())
	case stdErrors.Is(err, errors.ErrMissingServers):
		return huma.Error422UnprocessableEntity(err.Error())
	case stdErrors.Is(err, errors.ErrRegistryUnavailable):
		logger.Error("Registry request failed", "error", err)
		return huma.Error502BadGateway("registry unavailable", err)
	case stdErrors.Is(err, errors.ErrSettingsParse):
		logger.Error("Settings file could not be parsed", "error", err)
		return huma.Error500InternalServerError("settings file could not be parsed", err)
	default:
		logger.Error("Unexpected error", "error", err)
		return huma.Error500InternalServerError("Internal server error", err)
	}
}

// errorHandler converts handler errors into API errors.
// Handler failures arrive as status 500 with the cause attached and are mapped by mapError.
// Anything else, such as request validation, keeps the status huma chose.
func errorHandler(logger hclog.Logger) func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
	return func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status != http.StatusInternalServerError || len(errs) == 0 {
			return huma.NewError(status, msg, errs...)
		}

		if len(errs) == 1 {
			return mapError(logger, errs[0])
		}

		return mapError(logger, stdErrors.Join(errs...))
	}
}
