package commands_test

import (
	"errors"
	"testing"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/commands"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Append(line string) error {
	args := m.Called(line)
	return args.Error(0)
}

type failingListener struct{ err error }

func (l *failingListener) OnAccountEvent(account.Account, account.Event) error { return l.err }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDepositCommand(t *testing.T) {
	t.Parallel()
	acc, err := account.NewChecking("Alice", d("100"), d("0"), account.WithID("acc-1"))
	require.NoError(t, err)

	rec := &mockRecorder{}
	rec.On("Append", "Deposit: Account acc-1, Amount: 50.00, New Balance: 150.00").Return(nil).Once()

	cmd := commands.NewDeposit(acc, d("50"), rec)
	require.NoError(t, cmd.Execute())
	assert.True(t, d("150").Equal(acc.Balance()))
	rec.AssertExpectations(t)

	require.ErrorIs(t, cmd.Execute(), commands.ErrAlreadyExecuted)
	assert.True(t, d("150").Equal(acc.Balance()))
}

func TestDepositCommandInvalidAmount(t *testing.T) {
	t.Parallel()
	acc, err := account.NewChecking("Alice", d("100"), d("0"))
	require.NoError(t, err)
	rec := &mockRecorder{}

	err = commands.NewDeposit(acc, d("0"), rec).Execute()
	require.ErrorIs(t, err, account.ErrInvalidAmount)
	rec.AssertNotCalled(t, "Append", mock.Anything)
}

func TestWithdrawCommand(t *testing.T) {
	t.Parallel()

	t.Run("success is recorded", func(t *testing.T) {
		acc, err := account.NewChecking("Alice", d("1000"), d("500"), account.WithID("alice"))
		require.NoError(t, err)
		rec := &mockRecorder{}
		rec.On("Append", "Withdrawal: Account alice, Amount: 1200.00, New Balance: -200.00").Return(nil).Once()

		require.NoError(t, commands.NewWithdraw(acc, acc, d("1200"), rec).Execute())
		rec.AssertExpectations(t)
	})

	t.Run("rejection is not recorded", func(t *testing.T) {
		acc, err := account.NewSavings("Bob", d("10"), d("0.05"))
		require.NoError(t, err)
		rec := &mockRecorder{}

		err = commands.NewWithdraw(acc, acc, d("11"), rec).Execute()
		require.ErrorIs(t, err, account.ErrInsufficientFunds)
		rec.AssertNotCalled(t, "Append", mock.Anything)
		assert.True(t, d("10").Equal(acc.Balance()))
	})

	t.Run("decorator reports wrapped account", func(t *testing.T) {
		acc, err := account.NewSavings("Carol", d("100"), d("0"), account.WithID("carol"))
		require.NoError(t, err)
		protected, err := account.NewOverdraftProtection(acc, d("200"))
		require.NoError(t, err)
		rec := &mockRecorder{}
		rec.On("Append", "Withdrawal: Account carol, Amount: 250.00, New Balance: -150.00").Return(nil).Once()

		require.NoError(t, commands.NewWithdraw(protected, acc, d("250"), rec).Execute())
		rec.AssertExpectations(t)
	})
}

func TestCommandListenerFailureStillRecorded(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	acc, err := account.NewChecking("Alice", d("0"), d("0"), account.WithID("a"),
		account.WithListeners(&failingListener{err: boom}))
	require.NoError(t, err)

	rec := &mockRecorder{}
	rec.On("Append", "Deposit: Account a, Amount: 5.00, New Balance: 5.00").Return(nil).Once()

	err = commands.NewDeposit(acc, d("5"), rec).Execute()
	require.ErrorIs(t, err, account.ErrNotification)
	require.ErrorIs(t, err, boom)
	rec.AssertExpectations(t)
}

func TestCommandRecorderFailure(t *testing.T) {
	t.Parallel()
	acc, err := account.NewChecking("Alice", d("0"), d("0"))
	require.NoError(t, err)
	sinkErr := errors.New("disk full")
	rec := &mockRecorder{}
	rec.On("Append", mock.Anything).Return(sinkErr).Once()

	err = commands.NewDeposit(acc, d("5"), rec).Execute()
	require.ErrorIs(t, err, sinkErr)
	assert.True(t, d("5").Equal(acc.Balance()))
}

func TestCommandNilRecorder(t *testing.T) {
	t.Parallel()
	acc, err := account.NewChecking("Alice", d("0"), d("0"))
	require.NoError(t, err)
	require.NoError(t, commands.NewDeposit(acc, d("5"), nil).Execute())
}

func TestReversalCommand(t *testing.T) {
	t.Parallel()
	acc, err := account.NewSavings("Bob", d("0"), d("0"), account.WithID("bob"))
	require.NoError(t, err)
	var got []account.Event
	acc.AddListener(listenerFunc(func(e account.Event) { got = append(got, e) }))

	rec := &mockRecorder{}
	rec.On("Append", "Reversal: Account bob, Amount: 20.00, New Balance: 20.00").Return(nil).Once()

	require.NoError(t, commands.NewReversal(acc, d("20"), rec).Execute())
	rec.AssertExpectations(t)
	require.Len(t, got, 1)
	assert.Equal(t, account.EventTransferReversal, got[0].Type)
}

type eventCollector struct{ fn func(account.Event) }

func (c *eventCollector) OnAccountEvent(_ account.Account, e account.Event) error {
	c.fn(e)
	return nil
}

func listenerFunc(fn func(account.Event)) account.Listener { return &eventCollector{fn: fn} }

func TestInterestCommand(t *testing.T) {
	t.Parallel()
	acc, err := account.NewSavings("Bob", d("2000"), d("0.05"), account.WithID("bob"))
	require.NoError(t, err)
	rec := &mockRecorder{}
	rec.On("Append", "Interest: Account bob, Amount: 100.00, New Balance: 2100.00").Return(nil).Once()

	cmd := commands.NewInterest(acc, acc, rec)
	require.NoError(t, cmd.Execute())
	assert.True(t, cmd.Applied())
	assert.True(t, d("100").Equal(cmd.Amount()))
	rec.AssertExpectations(t)
}

func TestAppliedReflectsOutcome(t *testing.T) {
	t.Parallel()
	acc, err := account.NewSavings("Bob", d("10"), d("0"))
	require.NoError(t, err)

	rejected := commands.NewWithdraw(acc, acc, d("20"), nil)
	require.Error(t, rejected.Execute())
	assert.False(t, rejected.Applied())

	ok := commands.NewWithdraw(acc, acc, d("5"), nil)
	require.NoError(t, ok.Execute())
	assert.True(t, ok.Applied())
}
