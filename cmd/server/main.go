/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the pharmacy roster engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment (.env supported)
  2. Initialize SQLite store
  3. Build staff directory, pattern library, and holiday providers
  4. Create API handler and router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

ENVIRONMENT:
  PORT                  HTTP server port (default: 8080)
  DB_PATH               SQLite database path (default: roster.db)
                        Use ":memory:" for an in-memory database
  LOG_LEVEL             zerolog level (default: info)
  CORS_ALLOWED_ORIGINS  Comma-separated origins for the frontend

SEE ALSO:
  - config/config.go: Environment parsing
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
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

	"github.com/farmasi/roster-engine/api"
	"github.com/farmasi/roster-engine/config"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
	"github.com/farmasi/roster-engine/staff"
	"github.com/farmasi/roster-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := config.NewLogger(cfg.LogLevel)

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to initialize database")
	}
	defer db.Close()

	directory := staff.NewDirectory(staff.LegacyRoster(), db)
	manager := staff.NewManager(directory)
	holidays := roster.MergedHolidays{
		roster.StaticHolidays{},
		roster.StoreHolidays{Store: db},
	}

	service := schedule.NewService(db, directory, roster.StaticPatterns{}, holidays, log)
	scenarios := api.NewScenarioRunner(service, db)
	handler := api.NewHandler(service, manager, db, scenarios, log)
	router := api.NewRouter(handler, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("db", cfg.DBPath).Msg("server starting")
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
