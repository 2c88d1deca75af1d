package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
)

// HandlerFunc reacts to a published message.
type HandlerFunc func(ctx context.Context, msg Message) error

// MemoryBus dispatches messages to in-process handlers keyed by event type.
// It also keeps every published message, which tests rely on.
type MemoryBus struct {
	mu        sync.RWMutex
	handlers  map[account.EventType][]HandlerFunc
	published []Message
	logger    *slog.Logger
}

var _ Publisher = (*MemoryBus)(nil)

func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryBus{
		handlers: make(map[account.EventType][]HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Subscribe registers h for one event type.
func (b *MemoryBus) Subscribe(t account.EventType, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish runs the handlers of msg.Type in order. Handler errors are logged.
func (b *MemoryBus) Publish(ctx context.Context, msg Message) error {
	b.mu.Lock()
	b.published = append(b.published, msg)
	handlers := append([]HandlerFunc(nil), b.handlers[msg.Type]...)
	b.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, msg); err != nil {
			b.logger.Error("handler failed", "type", msg.Type, "account", msg.AccountID, "error", err)
		}
	}
	return nil
}

// Published returns a copy of every message seen so far.
func (b *MemoryBus) Published() []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Message(nil), b.published...)
}

func (b *MemoryBus) Close() error { return nil }
