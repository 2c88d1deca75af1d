package commands

import (
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// Withdraw debits through the withdrawal capability and reports against
// the account that owns the balance.
type Withdraw struct {
	once
	withdrawer account.Withdrawer
	account    account.Account
	amount     decimal.Decimal
	recorder   Recorder
}

var _ Command = (*Withdraw)(nil)

func NewWithdraw(w account.Withdrawer, acc account.Account, amount decimal.Decimal, rec Recorder) *Withdraw {
	return &Withdraw{withdrawer: w, account: acc, amount: amount, recorder: rec}
}

// Execute withdraws. Rejected withdrawals are not recorded.
func (c *Withdraw) Execute() error {
	if err := c.claim(); err != nil {
		return err
	}
	err := c.withdrawer.Withdraw(c.amount)
	if !c.mark(err) {
		return err
	}
	return record(c.recorder, err, "Withdrawal: Account %s, Amount: %s, New Balance: %s",
		c.account.ID(), money(c.amount), money(c.account.Balance()))
}
