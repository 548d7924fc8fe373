/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance service. Handles configuration,
  dependency injection, the sweep scheduler, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env / environment, flags override)
  2. Initialize SQLite store
  3. Create API handler and sweep scheduler
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  PORT, DB_PATH
  ATTENDANCE_DUPLICATE_WINDOW        e.g. "1h", "8h"
  ATTENDANCE_AUTO_CHECKOUT_THRESHOLD e.g. "1h", "8h"
  SWEEP_INTERVAL                     e.g. "1m"
  SWEEP_ENABLED                      "true"/"false"

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the sweep scheduler
  2. Stop accepting new connections, drain active requests (30s timeout)
  3. Close the database

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment parsing
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pharmadesk/attendance-engine/api"
	"github.com/pharmadesk/attendance-engine/attendance"
	"github.com/pharmadesk/attendance-engine/config"
	"github.com/pharmadesk/attendance-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags override the environment.
	port := flag.Int("port", cfg.App.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.App.DBPath, "SQLite database path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and sweep scheduler
	handler := api.NewHandler(store, attendance.Config{
		DuplicateCheckInWindow: cfg.Rules.DuplicateCheckInWindow,
		AutoCheckoutThreshold:  cfg.Rules.AutoCheckoutThreshold,
	})

	scheduler := api.NewSweepScheduler(handler.Ledger)
	scheduler.Interval = cfg.Sweep.Interval
	scheduler.Enabled = cfg.Sweep.Enabled
	scheduler.Start()
	defer scheduler.Stop()

	// Create router and server
	router := api.NewRouter(handler)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Attendance service listening on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
