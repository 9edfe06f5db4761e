package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ErlanBelekov/habit-tracker/config"
	"github.com/ErlanBelekov/habit-tracker/internal/auth"
	"github.com/ErlanBelekov/habit-tracker/internal/graph"
	"github.com/ErlanBelekov/habit-tracker/internal/health"
	"github.com/ErlanBelekov/habit-tracker/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/habit-tracker/internal/log"
	"github.com/ErlanBelekov/habit-tracker/internal/metrics"
	httptransport "github.com/ErlanBelekov/habit-tracker/internal/transport/http"
	"github.com/ErlanBelekov/habit-tracker/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	verifier := auth.NewVerifier(auth.VerifierConfig{
		JWKSURL:        cfg.JWKSURL,
		Audience:       cfg.JWTAudience,
		Issuer:         cfg.JWTIssuer,
		Algorithms:     cfg.AllowedAlgs(),
		FetchPerMinute: cfg.JWKSFetchPerMinute,
		FetchTimeout:   time.Duration(cfg.JWKSFetchTimeoutSec) * time.Second,
	}, logger)

	habitRepo := postgres.NewHabitRepository(pool)
	habitUsecase := usecase.NewHabitUsecase(habitRepo)
	resolver := graph.NewResolver(habitUsecase, logger)

	schema, err := graph.NewSchema(resolver)
	if err != nil {
		stop()
		log.Fatalf("schema: %v", err)
	}

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, schema, verifier, cfg.Env),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
