package bank_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/audit"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/service/bank"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var errFrozen = errors.New("account frozen")

// frozen accepts no deposits and exposes no withdrawal capability.
type frozen struct {
	account.Account
}

func (frozen) Deposit(decimal.Decimal) error { return errFrozen }

type eventLog struct {
	mu     sync.Mutex
	events []account.Event
	err    error
}

func (l *eventLog) OnAccountEvent(_ account.Account, e account.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return l.err
}

func (l *eventLog) types() []account.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]account.EventType, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

type BankTestSuite struct {
	suite.Suite
	sink *audit.MemorySink
	bank *bank.Bank
}

func (s *BankTestSuite) SetupTest() {
	factory := account.NewFactory()
	factory.Register("FROZEN", func(owner string, initial decimal.Decimal, _ []decimal.Decimal, opts ...account.Option) (account.Account, error) {
		acc, err := account.NewChecking(owner, initial, decimal.Zero, opts...)
		if err != nil {
			return nil, err
		}
		return frozen{Account: acc}, nil
	})
	s.sink = audit.NewMemorySink()
	s.bank = bank.New(bank.WithRecorder(s.sink), bank.WithFactory(factory))
}

func (s *BankTestSuite) balance(id string) decimal.Decimal {
	b, err := s.bank.Balance(id)
	s.Require().NoError(err)
	return b
}

func (s *BankTestSuite) assertBalance(want, id string) {
	got := s.balance(id)
	s.True(d(want).Equal(got), "balance of %s: want %s, got %s", id, want, got)
}

func (s *BankTestSuite) history() []string {
	lines, err := s.bank.History()
	s.Require().NoError(err)
	return lines
}

func (s *BankTestSuite) TestCreateAccount() {
	id, err := s.bank.CreateAccount(account.KindChecking, "Alice", d("1000"), d("500"))
	s.Require().NoError(err)
	s.NotEmpty(id)
	s.True(s.bank.Exists(id))
	s.Equal(1, s.bank.Count())

	typ, err := s.bank.AccountType(id)
	s.Require().NoError(err)
	s.Equal("Checking Account", typ)
	s.assertBalance("1000", id)
}

func (s *BankTestSuite) TestCreateAccountUnknownType() {
	_, err := s.bank.CreateAccount("BROKERAGE", "Alice", d("1"))
	s.ErrorIs(err, account.ErrUnknownAccountType)
	s.Zero(s.bank.Count())

	s.Panics(func() {
		s.bank.MustCreateAccount("BROKERAGE", "Alice", d("1"))
	})
	s.NotPanics(func() {
		s.bank.MustCreateAccount(account.KindSavings, "Bob", d("1"))
	})
}

func (s *BankTestSuite) TestNotFound() {
	s.ErrorIs(s.bank.Deposit("missing", d("1")), account.ErrAccountNotFound)
	s.ErrorIs(s.bank.Withdraw("missing", d("1")), account.ErrAccountNotFound)
	_, err := s.bank.Balance("missing")
	s.ErrorIs(err, account.ErrAccountNotFound)
	_, err = s.bank.AccountType("missing")
	s.ErrorIs(err, account.ErrAccountNotFound)
	_, err = s.bank.CalculateInterest("missing")
	s.ErrorIs(err, account.ErrAccountNotFound)
	s.ErrorIs(s.bank.EnableOverdraftProtection("missing", d("1")), account.ErrAccountNotFound)
	s.ErrorIs(s.bank.AddListener("missing", &eventLog{}), account.ErrAccountNotFound)
	s.False(s.bank.Exists("missing"))
}

func (s *BankTestSuite) TestDepositAndWithdraw() {
	id := s.bank.MustCreateAccount(account.KindChecking, "Alice", d("1000"), d("500"))

	s.Require().NoError(s.bank.Deposit(id, d("200")))
	s.Require().NoError(s.bank.Withdraw(id, d("1500")))
	s.assertBalance("-300", id)

	s.ErrorIs(s.bank.Withdraw(id, d("200.01")), account.ErrInsufficientFunds)
	s.ErrorIs(s.bank.Deposit(id, d("-1")), account.ErrInvalidAmount)
	s.assertBalance("-300", id)

	lines := s.history()
	s.Require().Len(lines, 2)
	s.Contains(lines[0], "Deposit: Account "+id+", Amount: 200.00, New Balance: 1200.00")
	s.Contains(lines[1], "Withdrawal: Account "+id+", Amount: 1500.00, New Balance: -300.00")
}

func (s *BankTestSuite) TestWithdrawUnsupported() {
	id := s.bank.MustCreateAccount("FROZEN", "Ice", d("10"))
	s.ErrorIs(s.bank.Withdraw(id, d("1")), account.ErrUnsupportedOperation)
	s.assertBalance("10", id)
}

func (s *BankTestSuite) TestTransfer() {
	alice := s.bank.MustCreateAccount(account.KindChecking, "Alice", d("900"), d("500"))
	bob := s.bank.MustCreateAccount(account.KindSavings, "Bob", d("2226"), d("0.05"))

	s.Require().NoError(s.bank.Transfer(alice, bob, d("200")))
	s.assertBalance("700", alice)
	s.assertBalance("2426", bob)

	lines := s.history()
	s.Require().Len(lines, 2)
	s.Contains(lines[0], "Withdrawal: Account "+alice)
	s.Contains(lines[1], "Deposit: Account "+bob)
}

func (s *BankTestSuite) TestTransferIntoOverdraft() {
	alice := s.bank.MustCreateAccount(account.KindChecking, "Alice", d("100"), d("500"))
	bob := s.bank.MustCreateAccount(account.KindSavings, "Bob", d("0"), d("0"))

	s.Require().NoError(s.bank.Transfer(alice, bob, d("600")))
	s.assertBalance("-500", alice)
	s.assertBalance("600", bob)
}

func (s *BankTestSuite) TestTransferRejected() {
	alice := s.bank.MustCreateAccount(account.KindChecking, "Alice", d("100"), d("50"))
	bob := s.bank.MustCreateAccount(account.KindSavings, "Bob", d("20"), d("0"))
	ice := s.bank.MustCreateAccount("FROZEN", "Ice", d("10"))

	tests := []struct {
		name     string
		from, to string
		amount   string
		wantErr  error
	}{
		{name: "insufficient checking", from: alice, to: bob, amount: "150.01", wantErr: account.ErrInsufficientFunds},
		{name: "insufficient savings", from: bob, to: alice, amount: "21", wantErr: account.ErrInsufficientFunds},
		{name: "zero amount", from: alice, to: bob, amount: "0", wantErr: account.ErrInvalidAmount},
		{name: "negative amount", from: alice, to: bob, amount: "-5", wantErr: account.ErrInvalidAmount},
		{name: "same account", from: alice, to: alice, amount: "1", wantErr: account.ErrSameAccount},
		{name: "unknown source", from: "nope", to: bob, amount: "1", wantErr: account.ErrAccountNotFound},
		{name: "unknown destination", from: alice, to: "nope", amount: "1", wantErr: account.ErrAccountNotFound},
		{name: "source cannot withdraw", from: ice, to: bob, amount: "1", wantErr: account.ErrUnsupportedOperation},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.ErrorIs(s.bank.Transfer(tt.from, tt.to, d(tt.amount)), tt.wantErr)
		})
	}

	s.assertBalance("100", alice)
	s.assertBalance("20", bob)
	s.assertBalance("10", ice)
	s.Empty(s.history())
}

func (s *BankTestSuite) TestTransferReversedWhenCreditFails() {
	alice := s.bank.MustCreateAccount(account.KindChecking, "Alice", d("100"), d("0"))
	ice := s.bank.MustCreateAccount("FROZEN", "Ice", d("0"))
	events := &eventLog{}
	s.Require().NoError(s.bank.AddListener(alice, events))

	err := s.bank.Transfer(alice, ice, d("40"))
	s.ErrorIs(err, errFrozen)
	s.assertBalance("100", alice)
	s.assertBalance("0", ice)
	s.Equal([]account.EventType{account.EventWithdraw, account.EventTransferReversal}, events.types())

	lines := s.history()
	s.Require().Len(lines, 2)
	s.Contains(lines[0], "Withdrawal: Account "+alice+", Amount: 40.00, New Balance: 60.00")
	s.Contains(lines[1], "Reversal: Account "+alice+", Amount: 40.00, New Balance: 100.00")
}

func (s *BankTestSuite) TestTransferReversedWhenDebitListenerFails() {
	alice := s.bank.MustCreateAccount(account.KindChecking, "Alice", d("100"), d("0"))
	bob := s.bank.MustCreateAccount(account.KindSavings, "Bob", d("0"), d("0"))
	boom := errors.New("boom")
	s.Require().NoError(s.bank.AddListener(alice, &eventLog{err: boom}))

	err := s.bank.Transfer(alice, bob, d("40"))
	s.ErrorIs(err, account.ErrNotification)
	s.ErrorIs(err, boom)
	s.assertBalance("100", alice)
	s.assertBalance("0", bob)
}

func (s *BankTestSuite) TestTransferCreditListenerFailureKeepsBothLegs() {
	alice := s.bank.MustCreateAccount(account.KindChecking, "Alice", d("100"), d("0"))
	bob := s.bank.MustCreateAccount(account.KindSavings, "Bob", d("0"), d("0"))
	s.Require().NoError(s.bank.AddListener(bob, &eventLog{err: errors.New("boom")}))

	err := s.bank.Transfer(alice, bob, d("40"))
	s.ErrorIs(err, account.ErrNotification)
	s.assertBalance("60", alice)
	s.assertBalance("40", bob)
}

func (s *BankTestSuite) TestInterest() {
	bob := s.bank.MustCreateAccount(account.KindSavings, "Bob", d("2000"), d("0.05"))

	got, err := s.bank.CalculateInterest(bob)
	s.Require().NoError(err)
	s.True(d("100").Equal(got))
	s.assertBalance("2100", bob)

	s.Require().NoError(s.bank.SetInterestPolicyByName(bob, interest.KindHighYield))
	got, err = s.bank.CalculateInterest(bob)
	s.Require().NoError(err)
	s.True(d("126").Equal(got))
	s.assertBalance("2226", bob)

	s.ErrorIs(s.bank.SetInterestPolicyByName(bob, "COMPOUND"), interest.ErrUnknownPolicy)

	alice := s.bank.MustCreateAccount(account.KindChecking, "Alice", d("1"), d("0"))
	_, err = s.bank.CalculateInterest(alice)
	s.ErrorIs(err, account.ErrUnsupportedOperation)
	s.ErrorIs(s.bank.SetInterestPolicy(alice, interest.Simple{}), account.ErrUnsupportedOperation)
}

func (s *BankTestSuite) TestOverdraftProtection() {
	id := s.bank.MustCreateAccount(account.KindSavings, "Carol", d("100"), d("0.02"))
	other := s.bank.MustCreateAccount(account.KindChecking, "Dan", d("0"), d("0"))

	s.ErrorIs(s.bank.Withdraw(id, d("150")), account.ErrInsufficientFunds)
	s.Require().NoError(s.bank.EnableOverdraftProtection(id, d("200")))

	typ, err := s.bank.AccountType(id)
	s.Require().NoError(err)
	s.Equal("Savings Account with Overdraft Protection", typ)

	s.Require().NoError(s.bank.Transfer(id, other, d("250")))
	s.assertBalance("-150", id)

	s.Require().NoError(s.bank.EnableOverdraftProtection(id, d("160")))
	s.ErrorIs(s.bank.Withdraw(id, d("11")), account.ErrInsufficientFunds)
	s.Require().NoError(s.bank.Withdraw(id, d("10")))
	s.assertBalance("-160", id)

	acc, err := s.bank.Account(id)
	s.Require().NoError(err)
	p, ok := acc.(*account.OverdraftProtection)
	s.Require().True(ok)
	_, nested := p.Unwrap().(*account.OverdraftProtection)
	s.False(nested)

	_, err = s.bank.CalculateInterest(id)
	s.NoError(err)

	s.ErrorIs(s.bank.EnableOverdraftProtection(id, d("-1")), account.ErrInvalidAmount)
}

func (s *BankTestSuite) TestListenersAttachedByBank() {
	events := &eventLog{}
	b := bank.New(bank.WithListeners(events))
	id := b.MustCreateAccount(account.KindChecking, "Alice", d("0"), d("0"))

	s.Require().NoError(b.Deposit(id, d("5")))
	s.Equal([]account.EventType{account.EventDeposit}, events.types())

	removed, err := b.RemoveListener(id, events)
	s.Require().NoError(err)
	s.True(removed)
	s.Require().NoError(b.Deposit(id, d("5")))
	s.Len(events.types(), 1)

	lines, err := b.History()
	s.NoError(err)
	s.Nil(lines)
}

func (s *BankTestSuite) TestListing() {
	ids := []string{
		s.bank.MustCreateAccount(account.KindChecking, "A", d("1")),
		s.bank.MustCreateAccount(account.KindSavings, "B", d("2")),
		s.bank.MustCreateAccount(account.KindChecking, "C", d("3")),
	}
	got := s.bank.AccountIDs()
	s.ElementsMatch(ids, got)
	s.True(sortedStrings(got))
	s.Equal(3, s.bank.Count())

	accs := s.bank.Accounts()
	s.Require().Len(accs, 3)
	for i, acc := range accs {
		s.Equal(got[i], acc.ID())
	}
}

func (s *BankTestSuite) TestSnapshotRestore() {
	alice := s.bank.MustCreateAccount(account.KindChecking, "Alice", d("1000"), d("500"))
	bob := s.bank.MustCreateAccount(account.KindSavings, "Bob", d("2000"), d("0.05"))
	s.Require().NoError(s.bank.SetInterestPolicyByName(bob, interest.KindHighYield))
	s.Require().NoError(s.bank.EnableOverdraftProtection(bob, d("100")))
	s.Require().NoError(s.bank.Withdraw(alice, d("1200")))

	snaps := s.bank.Snapshot()
	s.Require().Len(snaps, 2)

	events := &eventLog{}
	restored := bank.New(bank.WithListeners(events))
	s.Require().NoError(restored.Restore(snaps))
	s.ElementsMatch([]string{alice, bob}, restored.AccountIDs())

	b, err := restored.Balance(alice)
	s.Require().NoError(err)
	s.True(d("-200").Equal(b))

	typ, err := restored.AccountType(bob)
	s.Require().NoError(err)
	s.Equal("Savings Account with Overdraft Protection", typ)

	got, err := restored.CalculateInterest(bob)
	s.Require().NoError(err)
	s.True(d("120").Equal(got))
	s.Len(events.types(), 1)

	bad := []account.Snapshot{{ID: "x", Owner: "y", Kind: "OTHER"}}
	s.ErrorIs(restored.Restore(bad), account.ErrUnknownAccountType)
	s.Equal(2, restored.Count())
}

func (s *BankTestSuite) TestConcurrentTransfersConserveMoney() {
	a := s.bank.MustCreateAccount(account.KindChecking, "A", d("1000"), d("0"))
	b := s.bank.MustCreateAccount(account.KindChecking, "B", d("1000"), d("0"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.bank.Transfer(a, b, d("7"))
		}()
		go func() {
			defer wg.Done()
			_ = s.bank.Transfer(b, a, d("3"))
		}()
	}
	wg.Wait()

	s.True(d("2000").Equal(s.balance(a).Add(s.balance(b))))
	s.assertBalance("800", a)
}

func TestBankTestSuite(t *testing.T) {
	suite.Run(t, new(BankTestSuite))
}

func sortedStrings(ss []string) bool {
	for i := 1; i < len(ss); i++ {
		if strings.Compare(ss[i-1], ss[i]) > 0 {
			return false
		}
	}
	return true
}

// The sequence below mirrors the reference walkthrough with Alice, Bob and Charlie.
func TestWalkthrough(t *testing.T) {
	sink := audit.NewMemorySink()
	b := bank.New(bank.WithRecorder(sink), bank.WithListeners(audit.NewListener(sink, nil)))

	alice := b.MustCreateAccount(account.KindChecking, "Alice Smith", d("1000"), d("500"))
	bob := b.MustCreateAccount(account.KindSavings, "Bob Johnson", d("2000"), d("0.05"))

	require.NoError(t, b.Deposit(alice, d("200")))
	require.NoError(t, b.Deposit(bob, d("500")))
	require.NoError(t, b.Withdraw(alice, d("300")))
	require.NoError(t, b.Withdraw(bob, d("1000")))
	require.NoError(t, b.Withdraw(alice, d("1000")))

	charlie := b.MustCreateAccount(account.KindChecking, "Charlie Brown", d("500"), d("0"))
	require.NoError(t, b.EnableOverdraftProtection(charlie, d("200")))
	require.NoError(t, b.Withdraw(charlie, d("600")))
	require.ErrorIs(t, b.Withdraw(charlie, d("200")), account.ErrInsufficientFunds)
	require.NoError(t, b.Withdraw(charlie, d("100")))

	_, err := b.CalculateInterest(bob)
	require.NoError(t, err)
	require.NoError(t, b.SetInterestPolicyByName(bob, interest.KindHighYield))
	_, err = b.CalculateInterest(bob)
	require.NoError(t, err)

	for id, want := range map[string]string{alice: "-100", bob: "1669.5", charlie: "-200"} {
		got, err := b.Balance(id)
		require.NoError(t, err)
		assert.True(t, d(want).Equal(got), "%s: want %s got %s", id, want, got)
	}

	lines, err := sink.Lines()
	require.NoError(t, err)
	var audits int
	for _, l := range lines {
		if strings.Contains(l, "AUDIT: ") {
			audits++
		}
	}
	assert.Equal(t, 9, audits)
}

// bankReader looks balances up through the bank while being notified.
type bankReader struct {
	bank *bank.Bank
	mu   sync.Mutex
	seen map[string]decimal.Decimal
}

func (r *bankReader) OnAccountEvent(acc account.Account, _ account.Event) error {
	bal, err := r.bank.Balance(acc.ID())
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[acc.ID()] = bal
	return nil
}

func TestListenerReadsThroughBank(t *testing.T) {
	reader := &bankReader{seen: make(map[string]decimal.Decimal)}
	b := bank.New(bank.WithListeners(reader))
	reader.bank = b

	from := b.MustCreateAccount(account.KindChecking, "Alice", d("100"), d("0"))
	to := b.MustCreateAccount(account.KindSavings, "Bob", d("0"), d("0.05"))

	done := make(chan error, 1)
	go func() {
		if err := b.Deposit(from, d("10")); err != nil {
			done <- err
			return
		}
		done <- b.Transfer(from, to, d("40"))
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bank operation blocked on a listener reading a balance")
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.True(t, d("70").Equal(reader.seen[from]))
	assert.True(t, d("40").Equal(reader.seen[to]))
	assert.True(t, b.Exists(to))
}
