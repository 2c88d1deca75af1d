package account

import (
	"sync"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/shopspring/decimal"
)

// InterestBearer is implemented by accounts that accrue interest.
type InterestBearer interface {
	Rate() decimal.Decimal
	Policy() interest.Policy
	SetPolicy(p interest.Policy)
	CalculateInterest() (decimal.Decimal, error)
}

// Savings never goes negative and accrues interest through a swappable policy.
type Savings struct {
	Base
	rate decimal.Decimal

	pmu    sync.RWMutex
	policy interest.Policy
}

var (
	_ Account        = (*Savings)(nil)
	_ Withdrawer     = (*Savings)(nil)
	_ InterestBearer = (*Savings)(nil)
)

// WithPolicy sets the initial interest policy of a savings account.
func WithPolicy(p interest.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// NewSavings creates a savings account using the simple policy unless
// WithPolicy says otherwise.
func NewSavings(owner string, initial, rate decimal.Decimal, opts ...Option) (*Savings, error) {
	if owner == "" {
		return nil, ErrInvalidOwner
	}
	o := buildOptions(opts)
	if rate.IsNegative() || (!o.restoring && initial.IsNegative()) {
		return nil, ErrInvalidAmount
	}
	s := &Savings{rate: rate, policy: o.policy}
	if s.policy == nil {
		s.policy = interest.Simple{}
	}
	s.init(s, owner, initial, o)
	return s, nil
}

func (s *Savings) Kind() Kind            { return KindSavings }
func (s *Savings) Description() string   { return "Savings Account" }
func (s *Savings) Rate() decimal.Decimal { return s.rate }

func (s *Savings) Policy() interest.Policy {
	s.pmu.RLock()
	defer s.pmu.RUnlock()
	return s.policy
}

// SetPolicy swaps the interest policy. A nil policy resets it to simple.
func (s *Savings) SetPolicy(p interest.Policy) {
	if p == nil {
		p = interest.Simple{}
	}
	s.pmu.Lock()
	defer s.pmu.Unlock()
	s.policy = p
}

// Withdraw succeeds iff balance >= amount.
func (s *Savings) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	_, err := s.Apply(EventWithdraw, func(balance decimal.Decimal) (decimal.Decimal, error) {
		if balance.LessThan(amount) {
			return decimal.Zero, ErrInsufficientFunds
		}
		return amount.Neg(), nil
	})
	return err
}

// CalculateInterest credits policy.Compute(balance, rate) and returns it.
// The change is applied and notified even when the interest is zero.
func (s *Savings) CalculateInterest() (decimal.Decimal, error) {
	policy := s.Policy()
	e, err := s.Apply(EventInterestCalculation, func(balance decimal.Decimal) (decimal.Decimal, error) {
		return policy.Compute(balance, s.rate), nil
	})
	return e.Amount, err
}
