package audit

import (
	"fmt"
	"log/slog"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
)

// Listener writes an AUDIT line for every account event it observes.
type Listener struct {
	sink   Appender
	logger *slog.Logger
}

var _ account.Listener = (*Listener)(nil)

func NewListener(sink Appender, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{sink: sink, logger: logger.With("listener", "audit")}
}

func (l *Listener) OnAccountEvent(acc account.Account, e account.Event) error {
	line := fmt.Sprintf("AUDIT: Account %s, Event: %s, Amount: %s, Current Balance: %s",
		acc.ID(), e.Type, e.Amount.StringFixed(2), e.Balance.StringFixed(2))
	l.logger.Debug(line, "owner", acc.Owner())
	return l.sink.Append(line)
}
