package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/infra/eventbus"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// RunSmokeTest publishes one account event through the ledger's Kafka
// publisher and reads it back, checking that the envelope survives the trip.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	topic := strings.TrimSpace(os.Getenv("KAFKA_TOPIC"))
	if topic == "" {
		topic = "ledger.account-events.smoketest"
	}
	brokerList := strings.Split(brokers, ",")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", brokerList[0])
	if err != nil {
		logger.Error("dial failed", "error", err)
		return err
	}
	err = conn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	_ = conn.Close()
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		logger.Error("create topic failed", "topic", topic, "error", err)
		return err
	}

	pub, err := eventbus.NewKafkaPublisher(brokerList, topic, logger)
	if err != nil {
		return err
	}
	defer func() { _ = pub.Close() }()

	sent := eventbus.Message{
		AccountID:  uuid.NewString(),
		Owner:      "Smoke Test",
		Kind:       account.KindChecking,
		Type:       account.EventDeposit,
		Amount:     decimal.RequireFromString("12.34"),
		Balance:    decimal.RequireFromString("12.34"),
		OccurredAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := pub.Publish(ctx, sent); err != nil {
		logger.Error("publish failed", "error", err)
		return err
	}
	logger.Info("produced", "account", sent.AccountID)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokerList,
		GroupID:     "ledger-smoketest-" + uuid.NewString()[:8],
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
	defer func() { _ = r.Close() }()

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			logger.Error("fetch failed", "error", err)
			return err
		}
		if string(msg.Key) != sent.AccountID {
			continue
		}
		got, err := eventbus.Decode(msg.Value)
		if err != nil {
			return err
		}
		if got.Type != sent.Type || !got.Amount.Equal(sent.Amount) {
			return fmt.Errorf("round trip mismatch: sent %+v, got %+v", sent, got)
		}
		_ = r.CommitMessages(ctx, msg)
		logger.Info("kafka smoke test passed", "account", got.AccountID)
		return nil
	}
}

func main() {
	if err := RunSmokeTest(); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			slog.Error("smoke test failed", "error", err)
		}
		os.Exit(1)
	}
}
