package account

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Constructor builds an account of one kind. params are kind specific and
// may be empty.
type Constructor func(owner string, initial decimal.Decimal, params []decimal.Decimal, opts ...Option) (Account, error)

// Factory creates accounts by kind.
type Factory struct {
	mu    sync.RWMutex
	ctors map[Kind]Constructor
}

// NewFactory returns a factory that knows CHECKING (params[0] is the
// overdraft limit) and SAVINGS (params[0] is the interest rate). A missing
// parameter defaults to zero.
func NewFactory() *Factory {
	f := &Factory{ctors: make(map[Kind]Constructor)}
	f.Register(KindChecking, func(owner string, initial decimal.Decimal, params []decimal.Decimal, opts ...Option) (Account, error) {
		return NewChecking(owner, initial, param(params, 0), opts...)
	})
	f.Register(KindSavings, func(owner string, initial decimal.Decimal, params []decimal.Decimal, opts ...Option) (Account, error) {
		return NewSavings(owner, initial, param(params, 0), opts...)
	})
	return f
}

// Register adds or replaces the constructor for kind.
func (f *Factory) Register(kind Kind, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[kind] = ctor
}

// Kinds lists the registered kinds, sorted.
func (f *Factory) Kinds() []Kind {
	f.mu.RLock()
	defer f.mu.RUnlock()
	kinds := make([]Kind, 0, len(f.ctors))
	for k := range f.ctors {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Create builds an account of the given kind.
func (f *Factory) Create(kind Kind, owner string, initial decimal.Decimal, params []decimal.Decimal, opts ...Option) (Account, error) {
	f.mu.RLock()
	ctor, ok := f.ctors[kind]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccountType, kind)
	}
	return ctor(owner, initial, params, opts...)
}

func param(params []decimal.Decimal, i int) decimal.Decimal {
	if i < len(params) {
		return params[i]
	}
	return decimal.Zero
}
