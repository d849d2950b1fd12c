package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"hrcalc/internal/domain/auth"
	"hrcalc/internal/domain/payroll"
	"hrcalc/internal/platform/config"
	"hrcalc/internal/platform/metrics"
	financialhandler "hrcalc/internal/transport/http/handlers/financial"
	"hrcalc/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config  config.Config
	Engine  *payroll.Engine
	Metrics *metrics.Collector
	Router  http.Handler
}

// New loads the rate table and assembles the router. It does not listen.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rates := payroll.DefaultRates()
	if cfg.RatesFile != "" {
		loaded, err := payroll.LoadRates(cfg.RatesFile)
		if err != nil {
			return nil, fmt.Errorf("load rates %s: %w", cfg.RatesFile, err)
		}
		rates = loaded
		slog.Info("rate table loaded", "path", cfg.RatesFile)
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	app := &App{
		Config:  cfg,
		Engine:  payroll.NewEngine(rates),
		Metrics: collector,
	}
	app.Router = app.routes()
	return app, nil
}

func (a *App) routes() http.Handler {
	cfg := a.Config

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.Engine == nil {
			http.Error(w, "engine not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Metrics != nil {
		router.Handle("/metrics", a.Metrics.Handler())
	}

	var perms middleware.PermissionStore
	if cfg.AuthEnabled() {
		perms = auth.StaticPermissions{}
	}

	router.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthEnabled() {
			r.Use(middleware.Auth(cfg.JWTSecret))
		}
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.ExportRateLimit(cfg.RateLimitPerMinute, time.Minute))

		financialHandler := financialhandler.NewHandler(a.Engine, perms, a.Metrics)
		financialHandler.RegisterRoutes(r)
	})

	return router
}

func Run() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	app, err := New(cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	if !cfg.AuthEnabled() {
		slog.Warn("JWT_SECRET not set, calculators are served without authentication")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("hrcalc server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "err", err)
		}
		slog.Info("server stopped")
	}
}
