package commands

import (
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// Interest credits the interest computed by the account's current policy.
type Interest struct {
	once
	bearer   account.InterestBearer
	account  account.Account
	recorder Recorder
	amount   decimal.Decimal
}

var _ Command = (*Interest)(nil)

func NewInterest(b account.InterestBearer, acc account.Account, rec Recorder) *Interest {
	return &Interest{bearer: b, account: acc, recorder: rec}
}

// Amount is the interest credited by Execute.
func (c *Interest) Amount() decimal.Decimal { return c.amount }

func (c *Interest) Execute() error {
	if err := c.claim(); err != nil {
		return err
	}
	amount, err := c.bearer.CalculateInterest()
	if !c.mark(err) {
		return err
	}
	c.amount = amount
	return record(c.recorder, err, "Interest: Account %s, Amount: %s, New Balance: %s",
		c.account.ID(), money(amount), money(c.account.Balance()))
}
