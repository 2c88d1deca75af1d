package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/infra"
	infra_eventbus "github.com/SamuelMauli/AvaliacaoDesignPatterns/infra/eventbus"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/infra/metrics"
	infra_repository "github.com/SamuelMauli/AvaliacaoDesignPatterns/infra/repository"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/app"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/audit"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/config"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
)

// InitializeDependencies initializes all the application dependencies.
// On error every resource acquired so far is released.
func InitializeDependencies(cfg *config.App) (deps *app.Deps, err error) {
	return initialize(os.Stdout, cfg)
}

func initialize(w io.Writer, cfg *config.App) (deps *app.Deps, err error) {
	deps = &app.Deps{}
	logger := setupLogger(w, cfg.Log)
	deps.Logger = logger

	defer func() {
		if err != nil {
			for i := len(deps.Closers) - 1; i >= 0; i-- {
				_ = deps.Closers[i].Close()
			}
			deps = nil
		}
	}()

	// Transaction log
	var sinks audit.MultiSink
	if cfg.Audit.File != "" {
		fileSink, err := audit.OpenFileSink(cfg.Audit.File)
		if err != nil {
			return deps, fmt.Errorf("failed to open transaction log: %w", err)
		}
		deps.Closers = append(deps.Closers, fileSink)
		sinks = append(sinks, fileSink)
		logger.Info("Transaction log opened", "path", cfg.Audit.File)
	} else {
		sinks = append(sinks, audit.NewMemorySink())
		logger.Info("Transaction log kept in memory")
	}

	// Optional database
	if cfg.DB.Driver != "" {
		db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
		if err != nil {
			logger.Error("Failed to initialize database", "error", err)
			return deps, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return deps, err
		}
		deps.Closers = append(deps.Closers, sqlDB)
		deps.Store = infra_repository.NewUoW(db)
		sinks = append(sinks, infra_repository.NewAuditStore(db))
		logger.Info("Database initialized", "driver", cfg.DB.Driver)
	}
	deps.Recorder = sinks

	deps.Listeners = append(deps.Listeners, audit.NewListener(sinks, logger))

	if cfg.Metrics.Enabled {
		m := metrics.New()
		deps.Metrics = m
		deps.Listeners = append(deps.Listeners, m)
	}

	// Event bus
	pub, err := initPublisher(cfg, logger)
	if err != nil {
		return deps, err
	}
	deps.Closers = append(deps.Closers, pub)
	deps.Listeners = append(deps.Listeners, infra_eventbus.NewListener(pub, cfg.Kafka.WriteTimeout, logger))

	return deps, nil
}

// initPublisher wires the enabled external publishers behind circuit
// breakers. Without any, events go to an in-memory bus. A Redis server that
// cannot be reached is skipped with a warning.
func initPublisher(cfg *config.App, logger *slog.Logger) (infra_eventbus.Publisher, error) {
	settings := infra_eventbus.BreakerSettings{
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
	}
	var pubs infra_eventbus.Multi

	if cfg.Kafka.Enabled {
		kp, err := infra_eventbus.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
		}
		pubs = append(pubs, infra_eventbus.NewBreaker("kafka", kp, settings))
	}

	if cfg.Redis.Enabled {
		timeout := cfg.Kafka.WriteTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		rp, err := infra_eventbus.NewRedisPublisher(ctx, cfg.Redis.URL, cfg.Redis.Stream, cfg.Redis.MaxLen, logger)
		cancel()
		if err != nil {
			logger.Warn("Redis publisher unavailable, continuing without it", "error", err)
		} else {
			pubs = append(pubs, infra_eventbus.NewBreaker("redis", rp, settings))
		}
	}

	if len(pubs) == 0 {
		logger.Info("Using in-memory event bus")
		return newMemoryBus(logger), nil
	}
	return pubs, nil
}

// newMemoryBus returns a bus that logs overdraft use and reversals, the
// events an operator wants to see without an external broker.
func newMemoryBus(logger *slog.Logger) *infra_eventbus.MemoryBus {
	bus := infra_eventbus.NewMemoryBus(logger)
	notice := func(ctx context.Context, msg infra_eventbus.Message) error {
		logger.Warn("Account event",
			"account", msg.AccountID,
			"type", msg.Type,
			"amount", msg.Amount.StringFixed(2),
			"balance", msg.Balance.StringFixed(2),
		)
		return nil
	}
	bus.Subscribe(account.EventWithdrawWithOverdraft, notice)
	bus.Subscribe(account.EventTransferReversal, notice)
	return bus
}
