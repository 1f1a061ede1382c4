// cmssandbox serves a local emulation of the HubSpot legacy content API with
// one portal per configured API key.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/johnwards/solarsail/internal/config"
	"github.com/johnwards/solarsail/internal/database"
	"github.com/johnwards/solarsail/internal/sandbox"
	"github.com/johnwards/solarsail/internal/seed"
	"github.com/johnwards/solarsail/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadSandbox()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	version, err := database.Version(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath, "schema_version", version)

	s := store.New(db)

	if cfg.SeedPortal != 0 {
		if err := seed.Seed(ctx, s, cfg.SeedPortal); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: sandbox.Handler(s, cfg.Portals, cfg.SeedPortal),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("shutting down server")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting content sandbox", "addr", cfg.Addr, "portals", len(cfg.Portals), "seed_portal", cfg.SeedPortal)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
