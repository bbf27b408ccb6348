// Package server hosts the FCF HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fcfapi "fcf_analysis/pkg/api/fcf"
	fcfmiddleware "fcf_analysis/pkg/server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Analyzer fcfapi.Analyzer
	Results  fcfapi.ResultLoader // optional
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	DataRoot        string
	Dependencies    Dependencies
}

// ConfigureRouter builds the router with every API route mounted under /api/v1.
func ConfigureRouter(logger zerolog.Logger, config Config) *chi.Mux {
	handler := fcfapi.NewHandler(config.Dependencies.Analyzer, config.Dependencies.Results, config.DataRoot)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(fcfmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", handler.Routes)
	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config)
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// Handler exposes the router, mainly for tests.
func (w *WebAPI) Handler() http.Handler { return w.router }

// Start serves until the listener fails, ctx is cancelled or the process
// receives SIGINT or SIGTERM; in-flight requests then get ShutdownTimeout to finish.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
	case <-ctx.Done():
	}

	w.logger.Info().Msg("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
	defer cancel()

	if err := w.server.Shutdown(shutdownCtx); err != nil {
		w.logger.Error().Err(err).Msg("graceful shutdown failed")
		return w.server.Close()
	}
	return nil
}
