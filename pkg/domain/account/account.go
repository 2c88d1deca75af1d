// Package account holds the balance-bearing accounts of the ledger: the
// common behaviour shared by every account, the checking and savings
// variants, the overdraft protection wrapper and the type-keyed factory.
package account

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies a concrete account variant.
type Kind string

const (
	KindChecking Kind = "CHECKING"
	KindSavings  Kind = "SAVINGS"
)

// ParseKind normalises a type tag such as "checking" into a Kind.
func ParseKind(s string) Kind {
	return Kind(strings.ToUpper(strings.TrimSpace(s)))
}

// AdjustFunc computes the signed delta to apply given the current balance.
// Returning an error aborts the change and leaves the balance untouched.
type AdjustFunc func(balance decimal.Decimal) (decimal.Decimal, error)

// Account is the capability set every account exposes.
type Account interface {
	ID() string
	Owner() string
	Balance() decimal.Decimal
	Kind() Kind
	// Description is the human readable account type, e.g. "Savings Account".
	Description() string

	Deposit(amount decimal.Decimal) error

	AddListener(l Listener)
	RemoveListener(l Listener) bool

	// Apply is the only way to change a balance: it runs fn, applies the
	// delta and notifies every listener before another Apply may start.
	Apply(t EventType, fn AdjustFunc) (Event, error)
}

// Withdrawer is implemented by accounts that allow withdrawals.
type Withdrawer interface {
	Withdraw(amount decimal.Decimal) error
}

// OverdraftLimiter is implemented by accounts that may go below zero.
type OverdraftLimiter interface {
	OverdraftLimit() decimal.Decimal
}

// Base implements the behaviour shared by every account variant. Variants
// embed it and call init with themselves so listeners receive the variant.
type Base struct {
	id    string
	owner string
	now   func() time.Time

	// opMu serialises Apply, notification included. mu guards balance only,
	// so listeners may read Balance.
	opMu    sync.Mutex
	mu      sync.Mutex
	balance decimal.Decimal

	lmu       sync.Mutex
	listeners []Listener

	self Account
}

func (b *Base) init(self Account, owner string, initial decimal.Decimal, o *options) {
	b.self = self
	b.id = o.id
	if b.id == "" {
		b.id = uuid.NewString()
	}
	b.owner = owner
	b.balance = initial
	b.now = o.now
	if b.now == nil {
		b.now = time.Now
	}
	b.listeners = append(b.listeners, o.listeners...)
}

func (b *Base) ID() string    { return b.id }
func (b *Base) Owner() string { return b.owner }

func (b *Base) Balance() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance
}

// Deposit adds a positive amount and emits a deposit event.
func (b *Base) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	_, err := b.Apply(EventDeposit, func(decimal.Decimal) (decimal.Decimal, error) {
		return amount, nil
	})
	return err
}

// AddListener registers l. The same listener may be registered more than once.
func (b *Base) AddListener(l Listener) {
	if l == nil {
		return
	}
	b.lmu.Lock()
	defer b.lmu.Unlock()
	b.listeners = append(b.listeners, l)
}

// RemoveListener detaches the first registration of l and reports whether
// one was found.
func (b *Base) RemoveListener(l Listener) bool {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return false
	}
	b.lmu.Lock()
	defer b.lmu.Unlock()
	for i, cur := range b.listeners {
		if reflect.TypeOf(cur).Comparable() && cur == l {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Listeners returns the registered listeners in registration order.
func (b *Base) Listeners() []Listener {
	b.lmu.Lock()
	defer b.lmu.Unlock()
	return append([]Listener(nil), b.listeners...)
}

func (b *Base) Apply(t EventType, fn AdjustFunc) (Event, error) {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	delta, err := fn(b.Balance())
	if err != nil {
		return Event{}, err
	}

	b.mu.Lock()
	b.balance = b.balance.Add(delta)
	balance := b.balance
	b.mu.Unlock()

	e := Event{
		AccountID:  b.id,
		Type:       t,
		Amount:     delta,
		Balance:    balance,
		OccurredAt: b.now(),
	}
	return e, b.notify(e)
}

// notify stops at the first failing listener.
func (b *Base) notify(e Event) error {
	for _, l := range b.Listeners() {
		if err := l.OnAccountEvent(b.self, e); err != nil {
			return fmt.Errorf("%w: %s on %s: %w", ErrNotification, e.Type, e.AccountID, err)
		}
	}
	return nil
}

type options struct {
	id        string
	now       func() time.Time
	listeners []Listener
	policy    interest.Policy
	// restoring skips the initial balance rules; a wrapper may have taken
	// the balance past them.
	restoring bool
}

// Option configures an account at construction.
type Option func(*options)

// WithID sets the identifier instead of generating one. Used when restoring.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithClock sets the time source stamped on events.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithListeners attaches listeners before the account is handed out.
func WithListeners(ls ...Listener) Option {
	return func(o *options) {
		for _, l := range ls {
			if l != nil {
				o.listeners = append(o.listeners, l)
			}
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Find walks a chain of wrappers starting at acc and returns the first
// account implementing T.
func Find[T any](acc Account) (T, bool) {
	for acc != nil {
		if t, ok := acc.(T); ok {
			return t, true
		}
		u, ok := acc.(interface{ Unwrap() Account })
		if !ok {
			break
		}
		acc = u.Unwrap()
	}
	var zero T
	return zero, false
}

// Unwrap returns the innermost account below any wrappers.
func Unwrap(acc Account) Account {
	for {
		u, ok := acc.(interface{ Unwrap() Account })
		if !ok {
			return acc
		}
		acc = u.Unwrap()
	}
}
