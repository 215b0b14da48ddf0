package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carebridge/hospital-api/internal/config"
	"github.com/carebridge/hospital-api/internal/db"
	httpx "github.com/carebridge/hospital-api/internal/http"
	"github.com/carebridge/hospital-api/internal/observability"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file, relying on environment")
	}

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	shutdownTracer, err := observability.InitTracer(context.Background(), "hospital-api", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	client, err := db.Connect(cfg.MongoURI)

	if err != nil {
		log.Error("mongo connect failed", "err", err)
		os.Exit(1)
	}

	database := client.Database(cfg.MongoDB)

	bootCtx, cancelBoot := config.WithTimeout(10 * time.Second)

	if err := db.EnsureIndexes(bootCtx, database); err != nil {
		log.Error("index setup failed", "err", err)
		cancelBoot()
		os.Exit(1)
	}

	if err := db.EnsureAdminUser(bootCtx, database, cfg); err != nil {
		log.Error("admin seed failed", "err", err)
		cancelBoot()
		os.Exit(1)
	}
	cancelBoot()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Error("upload dir setup failed", "err", err)
		os.Exit(1)
	}

	router := httpx.NewRouter(log, database, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}

		if err := client.Disconnect(ctx); err != nil {
			log.Error("mongo disconnect failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
