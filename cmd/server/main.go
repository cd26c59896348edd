/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the factory traceability server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from FACTORY_* environment variables
  2. Build the logger (console in development, JSON otherwise)
  3. Open the snapshot store (json file or sqlite)
  4. Load any persisted snapshot into the handler
  5. Start the HTTP server with graceful shutdown

CONFIGURATION (environment):
  FACTORY_ENV            development | staging | production
  FACTORY_LOG_LEVEL      trace | debug | info | warn | error
  FACTORY_HTTP_PORT      listen port (default 8080)
  FACTORY_STORAGE_MODE   json | sqlite
  FACTORY_DATA_FILE      snapshot path for json mode
  FACTORY_DB_PATH        database path for sqlite mode
  FACTORY_SEED           generation seed
  FACTORY_DAYS           generation window length

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration keys and defaults
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/factory-trace/api"
	"github.com/warp/factory-trace/config"
	"github.com/warp/factory-trace/logger"
	"github.com/warp/factory-trace/model"
	"github.com/warp/factory-trace/store/jsonfile"
	"github.com/warp/factory-trace/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)

	var store model.Store
	var closer func() error
	switch cfg.Storage.Mode {
	case config.StorageSQLite:
		s, err := sqlite.New(cfg.Storage.DBPath, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.DBPath).Msg("failed to open sqlite store")
		}
		store = s
		closer = s.Close
	default:
		store = jsonfile.New(cfg.Storage.DataFile, log)
	}
	if closer != nil {
		defer closer()
	}

	handler := api.NewHandler(store, cfg, log)
	if err := handler.Bootstrap(context.Background()); err != nil {
		// Fatal exits without running defers; release the store first.
		if closer != nil {
			closer()
		}
		log.Fatal().Err(err).Msg("failed to load persisted snapshot")
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("storage", cfg.Storage.Mode).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
