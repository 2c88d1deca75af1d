package account

import (
	"fmt"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/shopspring/decimal"
)

// Snapshot is the persistable state of an account, including an overdraft
// protection wrapper if one is installed.
type Snapshot struct {
	ID             string
	Owner          string
	Kind           Kind
	Balance        decimal.Decimal
	OverdraftLimit decimal.Decimal
	Rate           decimal.Decimal
	Policy         interest.Kind
	// PolicyBonus is set for the high-yield policy.
	PolicyBonus *decimal.Decimal
	// ProtectionLimit is nil unless the account is wrapped by OverdraftProtection.
	ProtectionLimit *decimal.Decimal
}

// SnapshotOf captures the current state of acc.
func SnapshotOf(acc Account) Snapshot {
	s := Snapshot{
		ID:      acc.ID(),
		Owner:   acc.Owner(),
		Kind:    acc.Kind(),
		Balance: acc.Balance(),
	}
	if p, ok := Find[*OverdraftProtection](acc); ok {
		limit := p.OverdraftLimit()
		s.ProtectionLimit = &limit
	}
	switch inner := Unwrap(acc).(type) {
	case *Checking:
		s.OverdraftLimit = inner.OverdraftLimit()
	case *Savings:
		s.Rate = inner.Rate()
		policy := inner.Policy()
		s.Policy = policy.Kind()
		if hy, ok := policy.(interest.HighYield); ok {
			bonus := hy.EffectiveBonus()
			s.PolicyBonus = &bonus
		}
	}
	return s
}

// Restore rebuilds an account from a snapshot. policyOpts configure the
// interest policy of savings accounts; a bonus stored in the snapshot wins.
func Restore(f *Factory, s Snapshot, policyOpts []interest.Option, opts ...Option) (Account, error) {
	if f == nil {
		f = NewFactory()
	}
	opts = append([]Option{WithID(s.ID), func(o *options) { o.restoring = true }}, opts...)

	var params []decimal.Decimal
	switch s.Kind {
	case KindChecking:
		params = []decimal.Decimal{s.OverdraftLimit}
	case KindSavings:
		params = []decimal.Decimal{s.Rate}
		if s.Policy != "" {
			popts := policyOpts
			if s.PolicyBonus != nil {
				popts = append(append([]interest.Option(nil), policyOpts...), interest.WithBonus(*s.PolicyBonus))
			}
			p, err := interest.New(s.Policy, popts...)
			if err != nil {
				return nil, fmt.Errorf("restore %s: %w", s.ID, err)
			}
			opts = append(opts, WithPolicy(p))
		}
	}

	acc, err := f.Create(s.Kind, s.Owner, s.Balance, params, opts...)
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", s.ID, err)
	}
	if s.ProtectionLimit != nil {
		return NewOverdraftProtection(acc, *s.ProtectionLimit)
	}
	return acc, nil
}
