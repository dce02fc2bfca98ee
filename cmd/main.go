// feedsync fetches RSS/RDF/Atom feeds and synchronizes read and starred
// state across local, Tiny Tiny RSS and google-reader-dialect accounts.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedsync/collection"
	"feedsync/config"
	"feedsync/driver"
	"feedsync/handler"
	"feedsync/repository"
)

func main() {
	healthCheck := flag.Bool("health-check", false, "verify configuration and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration failed", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if *healthCheck {
		logger.Info("configuration ok")
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("feedsync failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	accounts, err := config.LoadAccountsFile(cfg.AccountsFile)
	if err != nil {
		return err
	}

	store := repository.NewFileStore(cfg.StorageDir)
	deps := collection.Deps{
		Logger:          logger,
		Records:         store.Records,
		Contents:        store.Contents,
		Trees:           store.Trees,
		Tokens:          store.Tokens,
		Purger:          store,
		Accounts:        accounts,
		Fetcher:         driver.NewFeedHTTPClient(cfg.HTTPTimeout, cfg.RetryAttempts, logger),
		Timeout:         cfg.HTTPTimeout,
		FetchLimit:      cfg.FetchLimit,
		FetchUnreadOnly: cfg.FetchUnreadOnly,
		Lenient:         cfg.LenientParse,
		Retention:       cfg.Retention,
	}

	registry, err := collection.NewRegistry(accounts.Accounts(), deps, logger)
	if err != nil {
		return err
	}
	if err := registry.InitAll(ctx); err != nil {
		return err
	}

	refresher := handler.NewRefreshHandler(registry, logger)

	logger.Info("feedsync started",
		"accounts", len(accounts.Accounts()),
		"storage_dir", cfg.StorageDir,
		"refresh_interval", cfg.RefreshInterval.String())

	if err := refresher.RefreshAll(ctx); err != nil {
		logger.Error("initial refresh failed", "error", err)
	}
	if cfg.RefreshInterval <= 0 {
		return nil
	}

	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			if err := refresher.RefreshAll(ctx); err != nil {
				logger.Error("scheduled refresh failed", "error", err)
			}
		}
	}
}
