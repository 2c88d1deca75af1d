// Package bank is the single entry point of the ledger. A Bank owns the
// account registry, creates accounts through the factory and runs every
// balance change as a command so it is recorded in the shared sink.
//
// All mutating operations are serialised by one bank-wide lock, so a
// transfer's pre-checks, debit and credit are never interleaved with another
// operation issued through the bank. Read accessors such as Balance only take
// the registry lock and may be called from account listeners.
package bank

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/commands"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/shopspring/decimal"
)

// HistoryReader is implemented by recorders that can return what they stored.
type HistoryReader interface {
	Lines() ([]string, error)
}

// Bank is the account registry and orchestrator.
type Bank struct {
	// opMu serialises mutating operations, including listener notification.
	opMu sync.Mutex

	mu         sync.RWMutex
	accounts   map[string]account.Account
	factory    *account.Factory
	recorder   commands.Recorder
	listeners  []account.Listener
	policyOpts []interest.Option
	logger     *slog.Logger
}

// Option configures a Bank.
type Option func(*Bank)

// WithRecorder sets the sink that receives transaction lines.
func WithRecorder(r commands.Recorder) Option {
	return func(b *Bank) { b.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Bank) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithFactory(f *account.Factory) Option {
	return func(b *Bank) {
		if f != nil {
			b.factory = f
		}
	}
}

// WithListeners attaches listeners to every account the bank creates or restores.
func WithListeners(ls ...account.Listener) Option {
	return func(b *Bank) { b.listeners = append(b.listeners, ls...) }
}

// WithInterestOptions configures policies built by name, e.g. the high-yield bonus.
func WithInterestOptions(opts ...interest.Option) Option {
	return func(b *Bank) { b.policyOpts = append(b.policyOpts, opts...) }
}

func New(opts ...Option) *Bank {
	b := &Bank{
		accounts: make(map[string]account.Account),
		factory:  account.NewFactory(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("service", "bank")
	return b
}

// CreateAccount builds an account of the given kind, registers it and
// returns its identifier. params are kind specific: the overdraft limit for
// CHECKING, the interest rate for SAVINGS.
func (b *Bank) CreateAccount(kind account.Kind, owner string, initial decimal.Decimal, params ...decimal.Decimal) (string, error) {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	acc, err := b.factory.Create(kind, owner, initial, params, account.WithListeners(b.listeners...))
	if err != nil {
		b.logger.Warn("Create account rejected", "kind", kind, "owner", owner, "error", err)
		return "", err
	}
	b.register(acc)
	b.logger.Info("Account created", "id", acc.ID(), "type", acc.Description(), "owner", owner)
	return acc.ID(), nil
}

// MustCreateAccount is like CreateAccount but panics on error. Use it where
// the kind is a compile-time constant.
func (b *Bank) MustCreateAccount(kind account.Kind, owner string, initial decimal.Decimal, params ...decimal.Decimal) string {
	id, err := b.CreateAccount(kind, owner, initial, params...)
	if err != nil {
		panic(fmt.Sprintf("bank: create %s account: %v", kind, err))
	}
	return id
}

func (b *Bank) lookup(id string) (account.Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	acc, ok := b.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", account.ErrAccountNotFound, id)
	}
	return acc, nil
}

func (b *Bank) register(acc account.Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[acc.ID()] = acc
}

// Account returns the registered account, wrappers included.
func (b *Bank) Account(id string) (account.Account, error) {
	return b.lookup(id)
}

func (b *Bank) Deposit(id string, amount decimal.Decimal) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	acc, err := b.lookup(id)
	if err != nil {
		b.logger.Warn("Deposit rejected", "id", id, "error", err)
		return err
	}
	if err := commands.NewDeposit(acc, amount, b.recorder).Execute(); err != nil {
		b.logger.Warn("Deposit failed", "id", id, "amount", amount, "error", err)
		return err
	}
	return nil
}

func (b *Bank) Withdraw(id string, amount decimal.Decimal) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	acc, err := b.lookup(id)
	if err != nil {
		b.logger.Warn("Withdraw rejected", "id", id, "error", err)
		return err
	}
	w, ok := acc.(account.Withdrawer)
	if !ok {
		b.logger.Warn("Withdraw rejected", "id", id, "error", account.ErrUnsupportedOperation)
		return account.ErrUnsupportedOperation
	}
	if err := commands.NewWithdraw(w, acc, amount, b.recorder).Execute(); err != nil {
		b.logger.Warn("Withdraw failed", "id", id, "amount", amount, "error", err)
		return err
	}
	return nil
}

// available is what a withdrawal may take: the balance plus any overdraft
// the account or its wrapper grants.
func available(acc account.Account) decimal.Decimal {
	funds := acc.Balance()
	if l, ok := acc.(account.OverdraftLimiter); ok {
		funds = funds.Add(l.OverdraftLimit())
	}
	return funds
}

// Transfer moves amount between two different accounts. Either both legs
// apply or the source is credited back with a transfer_reversal entry.
func (b *Bank) Transfer(fromID, toID string, amount decimal.Decimal) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	logger := b.logger.With("from", fromID, "to", toID, "amount", amount)

	from, w, to, err := b.validateTransfer(fromID, toID, amount)
	if err != nil {
		logger.Warn("Transfer rejected", "error", err)
		return err
	}

	debit := commands.NewWithdraw(w, from, amount, b.recorder)
	if err := debit.Execute(); err != nil {
		if !debit.Applied() {
			logger.Warn("Transfer rejected", "error", err)
			return err
		}
		return b.compensate(logger, from, amount, fmt.Errorf("transfer debit: %w", err))
	}

	credit := commands.NewDeposit(to, amount, b.recorder)
	if err := credit.Execute(); err != nil {
		if !credit.Applied() {
			return b.compensate(logger, from, amount, fmt.Errorf("transfer credit: %w", err))
		}
		logger.Warn("Transfer applied with errors", "error", err)
		return fmt.Errorf("transfer credit: %w", err)
	}

	logger.Info("Transfer completed")
	return nil
}

func (b *Bank) validateTransfer(fromID, toID string, amount decimal.Decimal) (account.Account, account.Withdrawer, account.Account, error) {
	from, err := b.lookup(fromID)
	if err != nil {
		return nil, nil, nil, err
	}
	to, err := b.lookup(toID)
	if err != nil {
		return nil, nil, nil, err
	}
	if fromID == toID {
		return nil, nil, nil, account.ErrSameAccount
	}
	if !amount.IsPositive() {
		return nil, nil, nil, account.ErrInvalidAmount
	}
	w, ok := from.(account.Withdrawer)
	if !ok {
		return nil, nil, nil, account.ErrUnsupportedOperation
	}
	if available(from).LessThan(amount) {
		return nil, nil, nil, account.ErrInsufficientFunds
	}
	return from, w, to, nil
}

// compensate credits the source back after a debit whose transfer could
// not complete.
func (b *Bank) compensate(logger *slog.Logger, from account.Account, amount decimal.Decimal, cause error) error {
	logger.Error("Transfer failed, reversing debit", "error", cause)
	rev := commands.NewReversal(from, amount, b.recorder)
	if err := rev.Execute(); err != nil {
		logger.Error("Transfer reversal reported errors", "applied", rev.Applied(), "error", err)
		return errors.Join(cause, fmt.Errorf("transfer reversal: %w", err))
	}
	return cause
}

// CalculateInterest credits interest on an interest-bearing account and
// returns the amount credited.
func (b *Bank) CalculateInterest(id string) (decimal.Decimal, error) {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	acc, err := b.lookup(id)
	if err != nil {
		return decimal.Zero, err
	}
	bearer, ok := account.Find[account.InterestBearer](acc)
	if !ok {
		return decimal.Zero, account.ErrUnsupportedOperation
	}
	cmd := commands.NewInterest(bearer, acc, b.recorder)
	if err := cmd.Execute(); err != nil {
		b.logger.Warn("Interest calculation failed", "id", id, "error", err)
		return cmd.Amount(), err
	}
	return cmd.Amount(), nil
}

// SetInterestPolicy swaps the policy of an interest-bearing account.
func (b *Bank) SetInterestPolicy(id string, p interest.Policy) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	acc, err := b.lookup(id)
	if err != nil {
		return err
	}
	bearer, ok := account.Find[account.InterestBearer](acc)
	if !ok {
		return account.ErrUnsupportedOperation
	}
	bearer.SetPolicy(p)
	b.logger.Info("Interest policy changed", "id", id, "policy", bearer.Policy().Kind())
	return nil
}

// SetInterestPolicyByName resolves the policy by name first.
func (b *Bank) SetInterestPolicyByName(id string, kind interest.Kind) error {
	p, err := interest.New(kind, b.policyOpts...)
	if err != nil {
		return err
	}
	return b.SetInterestPolicy(id, p)
}

// EnableOverdraftProtection wraps the registered account with an overdraft
// protection of the given limit, replacing any previous protection.
func (b *Bank) EnableOverdraftProtection(id string, limit decimal.Decimal) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	acc, err := b.lookup(id)
	if err != nil {
		return err
	}
	if p, ok := acc.(*account.OverdraftProtection); ok {
		acc = p.Unwrap()
	}
	protected, err := account.NewOverdraftProtection(acc, limit)
	if err != nil {
		return err
	}
	b.register(protected)
	b.logger.Info("Overdraft protection enabled", "id", id, "limit", limit)
	return nil
}

func (b *Bank) AddListener(id string, l account.Listener) error {
	acc, err := b.Account(id)
	if err != nil {
		return err
	}
	acc.AddListener(l)
	return nil
}

func (b *Bank) RemoveListener(id string, l account.Listener) (bool, error) {
	acc, err := b.Account(id)
	if err != nil {
		return false, err
	}
	return acc.RemoveListener(l), nil
}

func (b *Bank) Balance(id string) (decimal.Decimal, error) {
	acc, err := b.Account(id)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance(), nil
}

// AccountType returns the human readable type, e.g. "Checking Account".
func (b *Bank) AccountType(id string) (string, error) {
	acc, err := b.Account(id)
	if err != nil {
		return "", err
	}
	return acc.Description(), nil
}

// AccountIDs returns every registered identifier, sorted.
func (b *Bank) AccountIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.accounts))
	for id := range b.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Accounts returns the registered accounts ordered by identifier.
func (b *Bank) Accounts() []account.Account {
	b.mu.RLock()
	defer b.mu.RUnlock()
	accs := make([]account.Account, 0, len(b.accounts))
	for _, acc := range b.accounts {
		accs = append(accs, acc)
	}
	sort.Slice(accs, func(i, j int) bool { return accs[i].ID() < accs[j].ID() })
	return accs
}

func (b *Bank) Exists(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.accounts[id]
	return ok
}

func (b *Bank) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.accounts)
}

// History returns the recorded transaction lines, or nil if the recorder
// cannot be read back.
func (b *Bank) History() ([]string, error) {
	r, ok := b.recorder.(HistoryReader)
	if !ok {
		return nil, nil
	}
	return r.Lines()
}
