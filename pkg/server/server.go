package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	metricshandlers "github.com/de-tools/pulse-atlas/pkg/handlers/metrics"
	mirrorhandlers "github.com/de-tools/pulse-atlas/pkg/handlers/mirror"
	reporthandlers "github.com/de-tools/pulse-atlas/pkg/handlers/report"
	pulsemiddleware "github.com/de-tools/pulse-atlas/pkg/server/middleware"
	"github.com/de-tools/pulse-atlas/pkg/store/artifacts"
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
	Metrics metricshandlers.Engine
	Refresh metricshandlers.Refresher
	Reports reporthandlers.Service
	// Sink and Syncer are optional
	Sink   artifacts.Sink
	Syncer mirrorhandlers.Syncer
	OnSync mirrorhandlers.SyncHook
	Logger zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	metricsHandler := metricshandlers.NewHandler(deps.Metrics, deps.Refresh)
	reportHandler := reporthandlers.NewHandler(deps.Reports, deps.Sink)

	router := chi.NewRouter()

	router.Use(pulsemiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/metrics", func(r chi.Router) {
			r.Get("/", metricsHandler.GetSnapshot)
			r.Post("/refresh", metricsHandler.Refresh)
			r.Get("/export", metricsHandler.Export)
			r.Get("/{domain}", metricsHandler.GetMetric)
		})

		r.Get("/templates", reportHandler.ListTemplates)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", reportHandler.List)
			r.Post("/", reportHandler.Generate)
			r.Get("/{id}", reportHandler.Get)
			r.Delete("/{id}", reportHandler.Delete)
			r.Get("/{id}/export", reportHandler.Export)
			r.Post("/{id}/artifacts", reportHandler.Save)
		})
		r.Post("/schedules", reportHandler.Schedule)

		if deps.Syncer != nil {
			syncHandler := mirrorhandlers.NewHandler(deps.Syncer, deps.OnSync)
			r.Post("/sync", syncHandler.Sync)
			r.Get("/sync/runs", syncHandler.ListRuns)
		}
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	config.Dependencies.Logger = logger
	router := ConfigureRouter(config)

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (w *WebAPI) Start() error {
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
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
