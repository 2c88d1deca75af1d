package eventbus

import (
	"context"
	"log/slog"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
)

// Listener publishes every account event it observes. Publish failures are
// logged and never reach the account operation.
type Listener struct {
	pub     Publisher
	timeout time.Duration
	logger  *slog.Logger
}

var _ account.Listener = (*Listener)(nil)

func NewListener(pub Publisher, timeout time.Duration, logger *slog.Logger) *Listener {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{pub: pub, timeout: timeout, logger: logger.With("listener", "eventbus")}
}

func (l *Listener) OnAccountEvent(acc account.Account, e account.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if err := l.pub.Publish(ctx, NewMessage(acc, e)); err != nil {
		l.logger.Warn("Publish failed", "type", e.Type, "account", e.AccountID, "error", err)
	}
	return nil
}
