package account

import "errors"

var (
	// ErrInvalidAmount is returned when an amount is zero or negative, or a
	// limit or rate is out of range.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal would break the
	// account's balance rule.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when no account is registered under an identifier.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUnsupportedOperation is returned when an account lacks the capability
	// an operation needs, e.g. withdrawal or interest.
	ErrUnsupportedOperation = errors.New("operation not supported by account")

	// ErrUnknownAccountType is returned when the factory has no constructor for a kind.
	ErrUnknownAccountType = errors.New("unknown account type")

	// ErrSameAccount is returned when a transfer names the same account twice.
	ErrSameAccount = errors.New("cannot transfer to same account")

	// ErrNilAccount is returned when a nil account is wrapped or restored.
	ErrNilAccount = errors.New("nil account")

	// ErrInvalidOwner is returned when an account is created without an owner name.
	ErrInvalidOwner = errors.New("owner name is required")

	// ErrNotification is returned when a listener fails. The balance change
	// that triggered the notification has already been applied.
	ErrNotification = errors.New("listener notification failed")
)
