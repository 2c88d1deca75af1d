package commands

import (
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// Deposit credits an account.
type Deposit struct {
	once
	account  account.Account
	amount   decimal.Decimal
	recorder Recorder
}

var _ Command = (*Deposit)(nil)

func NewDeposit(acc account.Account, amount decimal.Decimal, rec Recorder) *Deposit {
	return &Deposit{account: acc, amount: amount, recorder: rec}
}

// Execute deposits and, if the balance changed, records
// "Deposit: Account <id>, Amount: <a>, New Balance: <b>".
func (c *Deposit) Execute() error {
	if err := c.claim(); err != nil {
		return err
	}
	err := c.account.Deposit(c.amount)
	if !c.mark(err) {
		return err
	}
	return record(c.recorder, err, "Deposit: Account %s, Amount: %s, New Balance: %s",
		c.account.ID(), money(c.amount), money(c.account.Balance()))
}
