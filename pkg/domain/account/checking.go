package account

import "github.com/shopspring/decimal"

// Checking may be overdrawn down to -OverdraftLimit.
type Checking struct {
	Base
	overdraftLimit decimal.Decimal
}

var (
	_ Account          = (*Checking)(nil)
	_ Withdrawer       = (*Checking)(nil)
	_ OverdraftLimiter = (*Checking)(nil)
)

// NewChecking creates a checking account. The limit must not be negative and
// the initial balance must respect it.
func NewChecking(owner string, initial, overdraftLimit decimal.Decimal, opts ...Option) (*Checking, error) {
	if owner == "" {
		return nil, ErrInvalidOwner
	}
	if overdraftLimit.IsNegative() {
		return nil, ErrInvalidAmount
	}
	o := buildOptions(opts)
	if !o.restoring && initial.LessThan(overdraftLimit.Neg()) {
		return nil, ErrInsufficientFunds
	}
	c := &Checking{overdraftLimit: overdraftLimit}
	c.init(c, owner, initial, o)
	return c, nil
}

func (c *Checking) Kind() Kind                      { return KindChecking }
func (c *Checking) Description() string             { return "Checking Account" }
func (c *Checking) OverdraftLimit() decimal.Decimal { return c.overdraftLimit }

// Withdraw succeeds iff balance - amount >= -OverdraftLimit.
func (c *Checking) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	_, err := c.Apply(EventWithdraw, func(balance decimal.Decimal) (decimal.Decimal, error) {
		if balance.Sub(amount).LessThan(c.overdraftLimit.Neg()) {
			return decimal.Zero, ErrInsufficientFunds
		}
		return amount.Neg(), nil
	})
	return err
}
