// Package main is the entry point for the martpos API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"martpos/internal/config"
	"martpos/internal/domain/product"
	"martpos/internal/domain/sale"
	"martpos/internal/domain/stock"
	"martpos/internal/httpapi"
	"martpos/internal/storage"
	"martpos/internal/storage/memory"
	"martpos/internal/storage/postgres"
	"martpos/internal/storage/sqlite"
	"martpos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting martpos server", "driver", cfg.Storage.Driver)

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer store.Close()

	ledger := stock.NewLedger(store, cfg.Stock.RejectOversell)
	writer := sale.NewWriter(store, ledger)
	reader := sale.NewReader(store)
	products := product.NewService(store, ledger)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Logger:         log,
		JWTSecret:      cfg.JWT.Secret,
		SaleWriter:     writer,
		SaleReader:     reader,
		StockLedger:    ledger,
		ProductService: products,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}
	log.Info("server stopped")
}

// openStore selects the backend per configuration: embedded sqlite for
// single-terminal shops, hosted postgres for multi-terminal shops, memory
// for demos.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Storage.SQLitePath)
	case config.DriverPostgres:
		return postgres.New(ctx, postgres.DefaultConfig(cfg.Storage.PostgresDSN))
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
