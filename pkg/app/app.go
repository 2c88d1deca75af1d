// Package app assembles the ledger from its dependencies.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/commands"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/config"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/service/bank"
)

// SnapshotStore persists account snapshots between runs.
type SnapshotStore interface {
	SaveAll(ctx context.Context, snaps []account.Snapshot) error
	LoadAll(ctx context.Context) ([]account.Snapshot, error)
}

// Metrics is the subset of the metrics collector the transports use.
type Metrics interface {
	Rejected(operation, reason string)
	ObserveRequest(method, route string, status int, d time.Duration)
	Handler() http.Handler
}

// Deps contains everything New needs to build the bank.
type Deps struct {
	Logger    *slog.Logger
	Recorder  commands.Recorder
	Listeners []account.Listener
	// Store is nil when the ledger runs in memory only.
	Store   SnapshotStore
	Metrics Metrics
	Closers []io.Closer
}

type App struct {
	Deps   *Deps
	Config *config.App
	Bank   *bank.Bank
}

func New(deps *Deps, cfg *config.App) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts := []bank.Option{
		bank.WithLogger(logger),
		bank.WithRecorder(deps.Recorder),
		bank.WithListeners(deps.Listeners...),
	}
	if cfg != nil && cfg.Interest != nil {
		opts = append(opts, bank.WithInterestOptions(interest.WithBonus(cfg.Interest.HighYieldBonus)))
	}
	return &App{
		Deps:   deps,
		Config: cfg,
		Bank:   bank.New(opts...),
	}
}

// Load restores the accounts saved by a previous run. It is a no-op without
// a store.
func (a *App) Load(ctx context.Context) error {
	if a.Deps.Store == nil {
		return nil
	}
	snaps, err := a.Deps.Store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}
	return a.Bank.Restore(snaps)
}

// Persist saves the current state of every account.
func (a *App) Persist(ctx context.Context) error {
	if a.Deps.Store == nil {
		return nil
	}
	return a.Deps.Store.SaveAll(ctx, a.Bank.Snapshot())
}

// Close persists state and releases every resource in reverse order of
// acquisition. All errors are returned joined.
func (a *App) Close(ctx context.Context) error {
	errs := []error{a.Persist(ctx)}
	for i := len(a.Deps.Closers) - 1; i >= 0; i-- {
		errs = append(errs, a.Deps.Closers[i].Close())
	}
	return errors.Join(errs...)
}
