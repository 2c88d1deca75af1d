package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/infra/initializer"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/app"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/config"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/webapi"
	log "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	ledger := app.New(deps, cfg)
	if err := ledger.Load(context.Background()); err != nil {
		_ = ledger.Close(context.Background())
		return err
	}
	fiberApp := webapi.SetupApp(ledger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	g.Go(func() error {
		logger.Info("Starting server",
			"env", cfg.Env,
			"address", addr,
			"scheme", cfg.Server.Scheme,
			"accounts", ledger.Bank.Count(),
		)
		return fiberApp.Listen(addr)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
		return ledger.Close(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server exited with error", "error", err)
		return err
	}
	return nil
}
