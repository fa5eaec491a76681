// Command api runs the LedgerLink HTTP server: duplicate detection,
// document linking, and verification classification for contractor
// bookkeeping clients.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/taxfolio/ledgerlink-backend/internal/api"
	"github.com/taxfolio/ledgerlink-backend/internal/application/service"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/matcher"
	"github.com/taxfolio/ledgerlink-backend/internal/infrastructure/config"
	"github.com/taxfolio/ledgerlink-backend/internal/infrastructure/storage"
	"github.com/taxfolio/ledgerlink-backend/internal/observability"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Load .env first so ${VAR} expansion in the config file sees it.
	_ = godotenv.Load()

	cfg := config.LoadOrEnvWithPath(*configPath)
	logger := observability.NewLogger(cfg.Observability.Logging)

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	matchConfig := matcher.DefaultConfig()
	matchConfig.Threshold = cfg.Matching.Threshold
	matchConfig.DateWindowDays = cfg.Matching.DateWindowDays
	matchConfig.AmountTolerance = cfg.Matching.AmountTolerance

	svc := service.NewLinkService(store, matcher.NewMatcher(matchConfig), nil, logger)

	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, svc, logger)

	// Run the server until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("received signal", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
