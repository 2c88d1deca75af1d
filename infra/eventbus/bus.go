// Package eventbus forwards account events to in-process subscribers and
// external brokers (Kafka, Redis Streams).
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// Message is the wire form of an account event.
type Message struct {
	AccountID  string            `json:"account_id"`
	Owner      string            `json:"owner"`
	Kind       account.Kind      `json:"kind"`
	Type       account.EventType `json:"type"`
	Amount     decimal.Decimal   `json:"amount"`
	Balance    decimal.Decimal   `json:"balance"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewMessage converts an event observed on acc.
func NewMessage(acc account.Account, e account.Event) Message {
	return Message{
		AccountID:  e.AccountID,
		Owner:      acc.Owner(),
		Kind:       acc.Kind(),
		Type:       e.Type,
		Amount:     e.Amount,
		Balance:    e.Balance,
		OccurredAt: e.OccurredAt,
	}
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode wraps msg in the typed JSON envelope shared by every broker.
func Encode(msg Message) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	b, err := json.Marshal(envelope{Type: string(msg.Type), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return b, nil
}

// Decode reverses Encode.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Message{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	var msg Message
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		return Message{}, fmt.Errorf("unmarshal event %q: %w", env.Type, err)
	}
	return msg, nil
}

// Publisher delivers messages to one destination.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

var _ Publisher = Multi(nil)

func (m Multi) Publish(ctx context.Context, msg Message) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
