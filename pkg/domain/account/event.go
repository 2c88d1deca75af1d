package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType tags a balance change.
type EventType string

const (
	EventDeposit               EventType = "deposit"
	EventWithdraw              EventType = "withdraw"
	EventWithdrawWithOverdraft EventType = "withdraw_with_overdraft"
	EventInterestCalculation   EventType = "interest_calculation"
	EventTransferReversal      EventType = "transfer_reversal"
)

// Event describes one applied balance change. Amount is signed: negative for
// withdrawals. Balance is the balance right after the change.
type Event struct {
	AccountID  string
	Type       EventType
	Amount     decimal.Decimal
	Balance    decimal.Decimal
	OccurredAt time.Time
}

// Listener observes balance changes on the accounts it is attached to.
//
// OnAccountEvent runs synchronously before the next change of acc may start.
// It may read acc, and acc.Balance equals e.Balance, but it must not call a
// mutating method of acc.
// A returned error is propagated to the caller of the mutating operation.
type Listener interface {
	OnAccountEvent(acc Account, e Event) error
}
