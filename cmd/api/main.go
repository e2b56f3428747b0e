package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet-ledger/config"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	"wallet-ledger/internal/app"
	"wallet-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("WLT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting Wallet Ledger")

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	ctx := context.Background()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// HTTP Server with graceful shutdown
	srv := application.Server(cfg.Server)

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
