package commands

import (
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// Reversal credits back a debit that was part of a failed transfer. It
// bypasses deposit validation so it can never be refused.
type Reversal struct {
	once
	account  account.Account
	amount   decimal.Decimal
	recorder Recorder
}

var _ Command = (*Reversal)(nil)

func NewReversal(acc account.Account, amount decimal.Decimal, rec Recorder) *Reversal {
	return &Reversal{account: acc, amount: amount, recorder: rec}
}

func (c *Reversal) Execute() error {
	if err := c.claim(); err != nil {
		return err
	}
	e, err := c.account.Apply(account.EventTransferReversal, func(decimal.Decimal) (decimal.Decimal, error) {
		return c.amount, nil
	})
	if !c.mark(err) {
		return err
	}
	return record(c.recorder, err, "Reversal: Account %s, Amount: %s, New Balance: %s",
		c.account.ID(), money(c.amount), money(e.Balance))
}
