// Package interest provides the interest computation policies used by
// interest-bearing accounts.
package interest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownPolicy is returned when a policy name is not recognised.
var ErrUnknownPolicy = errors.New("unknown interest policy")

// Kind names an interest policy.
type Kind string

const (
	KindSimple    Kind = "SIMPLE"
	KindHighYield Kind = "HIGH_YIELD"
)

// DefaultHighYieldBonus is the fixed bonus added to the rate by HighYield.
var DefaultHighYieldBonus = decimal.RequireFromString("0.01")

// Policy maps a balance and a rate to an interest amount.
// Implementations must be pure: no state, no side effects.
type Policy interface {
	Compute(balance, rate decimal.Decimal) decimal.Decimal
	Kind() Kind
}

// Simple computes balance * rate.
type Simple struct{}

func (Simple) Compute(balance, rate decimal.Decimal) decimal.Decimal {
	return balance.Mul(rate)
}

func (Simple) Kind() Kind { return KindSimple }

// HighYield computes balance * (rate + Bonus). A zero Bonus means
// DefaultHighYieldBonus, so HighYield{} behaves like New(KindHighYield).
type HighYield struct {
	Bonus decimal.Decimal
}

func (h HighYield) Compute(balance, rate decimal.Decimal) decimal.Decimal {
	return balance.Mul(rate.Add(h.EffectiveBonus()))
}

// EffectiveBonus is the bonus Compute adds to the rate.
func (h HighYield) EffectiveBonus() decimal.Decimal {
	if h.Bonus.IsZero() {
		return DefaultHighYieldBonus
	}
	return h.Bonus
}

func (HighYield) Kind() Kind { return KindHighYield }

type options struct {
	bonus decimal.Decimal
}

// Option configures a policy built by New.
type Option func(*options)

// WithBonus overrides the HighYield bonus. Zero keeps the default.
func WithBonus(bonus decimal.Decimal) Option {
	return func(o *options) {
		o.bonus = bonus
	}
}

// New builds a policy by name. Names are case-insensitive.
func New(kind Kind, opts ...Option) (Policy, error) {
	o := options{bonus: DefaultHighYieldBonus}
	for _, opt := range opts {
		opt(&o)
	}
	switch Kind(strings.ToUpper(strings.TrimSpace(string(kind)))) {
	case KindSimple:
		return Simple{}, nil
	case KindHighYield:
		return HighYield{Bonus: o.bonus}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, kind)
	}
}
