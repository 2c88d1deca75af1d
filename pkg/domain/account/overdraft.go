package account

import "github.com/shopspring/decimal"

// OverdraftProtection wraps any account and lets it be withdrawn down to
// -Limit. Everything except Withdraw and Description is delegated to the
// wrapped account, whose balance is the one that changes.
type OverdraftProtection struct {
	Account
	limit decimal.Decimal
}

var (
	_ Account          = (*OverdraftProtection)(nil)
	_ Withdrawer       = (*OverdraftProtection)(nil)
	_ OverdraftLimiter = (*OverdraftProtection)(nil)
)

// NewOverdraftProtection wraps acc with its own overdraft limit.
func NewOverdraftProtection(acc Account, limit decimal.Decimal) (*OverdraftProtection, error) {
	if acc == nil {
		return nil, ErrNilAccount
	}
	if limit.IsNegative() {
		return nil, ErrInvalidAmount
	}
	return &OverdraftProtection{Account: acc, limit: limit}, nil
}

func (o *OverdraftProtection) Description() string {
	return o.Account.Description() + " with Overdraft Protection"
}

func (o *OverdraftProtection) OverdraftLimit() decimal.Decimal { return o.limit }

// Unwrap returns the protected account.
func (o *OverdraftProtection) Unwrap() Account { return o.Account }

// Withdraw succeeds iff balance + limit >= amount and emits a
// withdraw_with_overdraft event from the wrapped account.
func (o *OverdraftProtection) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	_, err := o.Account.Apply(EventWithdrawWithOverdraft, func(balance decimal.Decimal) (decimal.Decimal, error) {
		if balance.Add(o.limit).LessThan(amount) {
			return decimal.Zero, ErrInsufficientFunds
		}
		return amount.Neg(), nil
	})
	return err
}
