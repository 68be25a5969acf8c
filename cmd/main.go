package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/mhkgpt/mhk-gpt/internal/api/v1/handlers"
	"github.com/mhkgpt/mhk-gpt/internal/api/v1/middleware"
	"github.com/mhkgpt/mhk-gpt/internal/config"
	"github.com/mhkgpt/mhk-gpt/internal/connections"
	"github.com/mhkgpt/mhk-gpt/internal/services"
	"github.com/mhkgpt/mhk-gpt/pkg/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	log.Info().
		Str("title", config.AppTitle).
		Str("version", config.AppVersion).
		Msg("Starting server")

	svcs, err := services.InitializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	manager := connections.NewManager(connections.DefaultTimeouts)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           setupRouter(cfg, svcs, manager),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown does not wait for hijacked WebSocket connections
	manager.CloseAll()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if err := svcs.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close services")
	}

	log.Info().Msg("Shutdown complete")
}

func setupRouter(cfg *config.Config, svcs *services.Services, manager *connections.Manager) http.Handler {
	r := mux.NewRouter()
	handlers.RegisterRoutes(r, svcs, manager, cfg)

	// CORS sits outside the router so preflight requests never reach mux
	return middleware.Logging(log.Logger)(middleware.CORS()(r))
}
