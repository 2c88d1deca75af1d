package initializer

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	infra_eventbus "github.com/SamuelMauli/AvaliacaoDesignPatterns/infra/eventbus"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/app"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/config"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.App {
	t.Helper()
	return &config.App{
		Env:      "test",
		Log:      &config.Log{Format: "text", Prefix: "[test]"},
		DB:       &config.DB{},
		Audit:    &config.Audit{File: filepath.Join(t.TempDir(), "transactions.log")},
		Interest: &config.Interest{HighYieldBonus: decimal.RequireFromString("0.01")},
		Kafka:    &config.Kafka{Topic: "ledger", WriteTimeout: time.Second},
		Redis:    &config.Redis{},
		Breaker:  &config.Breaker{MaxFailures: 3, OpenTimeout: time.Second},
		Metrics:  &config.Metrics{Enabled: true, Path: "/metrics"},
	}
}

func TestInitialize_InMemory(t *testing.T) {
	cfg := testConfig(t)
	deps, err := initialize(io.Discard, cfg)
	require.NoError(t, err)

	assert.Nil(t, deps.Store)
	assert.NotNil(t, deps.Metrics)
	assert.Len(t, deps.Listeners, 3)

	a := app.New(deps, cfg)
	id := a.Bank.MustCreateAccount(account.KindChecking, "Alice", decimal.NewFromInt(100), decimal.NewFromInt(50))
	require.NoError(t, a.Bank.Withdraw(id, decimal.NewFromInt(30)))

	lines, err := a.Bank.History()
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "AUDIT: Account "+id)
	assert.Contains(t, lines[1], "Withdrawal: Account "+id)

	require.NoError(t, a.Close(t.Context()))
}

func TestInitialize_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Enabled = false
	deps, err := initialize(io.Discard, cfg)
	require.NoError(t, err)
	assert.Nil(t, deps.Metrics)
	assert.Len(t, deps.Listeners, 2)
}

func TestInitialize_BadAuditPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.File = filepath.Join(t.TempDir(), "missing", "dir", "log")
	deps, err := initialize(io.Discard, cfg)
	assert.Error(t, err)
	assert.Nil(t, deps)
}

func TestInitialize_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB = &config.DB{Driver: "oracle", Url: "x"}
	_, err := initialize(io.Discard, cfg)
	assert.Error(t, err)
}

func TestInitPublisher_DefaultsToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub, err := initPublisher(testConfig(t), logger)
	require.NoError(t, err)
	assert.IsType(t, &infra_eventbus.MemoryBus{}, pub)
}

func TestInitPublisher_KafkaRequiresBrokers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)
	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = nil
	_, err := initPublisher(cfg, logger)
	assert.Error(t, err)
}

func TestInitPublisher_KafkaBehindBreaker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)
	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = []string{"127.0.0.1:1"}
	pub, err := initPublisher(cfg, logger)
	require.NoError(t, err)
	multi, ok := pub.(infra_eventbus.Multi)
	require.True(t, ok)
	require.Len(t, multi, 1)
	assert.IsType(t, &infra_eventbus.Breaker{}, multi[0])
	assert.NoError(t, pub.Close())
}

func TestInitPublisher_UnreachableRedisFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)
	cfg.Redis = &config.Redis{Enabled: true, URL: "redis://127.0.0.1:1/0", Stream: "ledger", MaxLen: 10}
	pub, err := initPublisher(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &infra_eventbus.MemoryBus{}, pub)
}

func TestSetupLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(&buf, &config.Log{Format: "json", Prefix: "[test]"})
	logger.Info("hello", "account", "a-1")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"account":"a-1"`)
}
