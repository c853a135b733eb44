/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the wallet and commission engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize SQLite store
  3. Seed default commission rates when the table is empty
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port            HTTP server port (default: 8080, env PORT)
  -db              SQLite database path (default: wallet.db, env DATABASE_PATH)
                   Use ":memory:" for in-memory database
  -min-withdrawal  Minimum withdrawal amount (default: 50, env MIN_WITHDRAWAL)
  -fee-rate        Withdrawal fee rate (default: 0.015, env WITHDRAWAL_FEE_RATE)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/wallet.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run with a flat 2% withdrawal fee
  ./server -fee-rate=0.02

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
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

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/api"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/commission"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/store/sqlite"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/withdrawal"
)

func main() {
	// .env is optional; flags and env vars win over defaults.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DATABASE_PATH", "wallet.db"), "SQLite database path")
	minWithdrawal := flag.String("min-withdrawal", envStr("MIN_WITHDRAWAL", "50"), "Minimum withdrawal amount")
	feeRate := flag.String("fee-rate", envStr("WITHDRAWAL_FEE_RATE", "0.015"), "Withdrawal fee rate")
	flag.Parse()

	cfg := withdrawal.DefaultConfig()
	if v, err := decimal.NewFromString(*minWithdrawal); err == nil {
		cfg.Minimum = v
	}
	if v, err := decimal.NewFromString(*feeRate); err == nil {
		cfg.FeeRate = v
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed commission rates on first boot
	if err := seedCommissionRates(context.Background(), store); err != nil {
		log.Printf("Warning: Failed to seed commission rates: %v", err)
	}

	// Initialize handler and router
	handler := api.NewHandler(store, cfg)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
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

// seedCommissionRates installs the default 6-level rate table when the
// config is empty. Levels beyond the seeded ones stay inactive until an
// admin configures them.
func seedCommissionRates(ctx context.Context, store *sqlite.Store) error {
	existing, err := store.ListRates(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := map[int]string{
		1: "10", 2: "5", 3: "3", 4: "2", 5: "1", 6: "0.5",
	}
	for level := 1; level <= commission.MaxLevels; level++ {
		percent, ok := defaults[level]
		if !ok {
			continue
		}
		if err := store.SetRate(ctx, level, decimal.RequireFromString(percent), true); err != nil {
			return err
		}
	}
	return nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return def
}
