package account

import (
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
)

//revive:disable

// CreateAccountRequest represents the request body for opening an account.
// OverdraftLimit applies to CHECKING accounts, InterestRate to SAVINGS.
type CreateAccountRequest struct {
	Kind           string `json:"kind" validate:"required,max=32"`
	Owner          string `json:"owner" validate:"required,min=1,max=255"`
	InitialBalance string `json:"initial_balance" validate:"omitempty,numeric"`
	OverdraftLimit string `json:"overdraft_limit" validate:"omitempty,numeric"`
	InterestRate   string `json:"interest_rate" validate:"omitempty,numeric"`
}

// AmountRequest is the body of deposit and withdraw requests.
type AmountRequest struct {
	Amount string `json:"amount" xml:"amount" form:"amount" validate:"required,numeric"`
}

// TransferRequest represents the request body for moving funds between accounts.
type TransferRequest struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Amount string `json:"amount" validate:"required,numeric"`
}

type PolicyRequest struct {
	Policy string `json:"policy" validate:"required"`
}

type ProtectionRequest struct {
	Limit string `json:"limit" validate:"required,numeric"`
}

// AccountDTO is the API response representation of an account.
type AccountDTO struct {
	ID              string  `json:"id"`
	Owner           string  `json:"owner"`
	Kind            string  `json:"kind"`
	Type            string  `json:"type"`
	Balance         string  `json:"balance"`
	OverdraftLimit  *string `json:"overdraft_limit,omitempty"`
	InterestRate    *string `json:"interest_rate,omitempty"`
	Policy          string  `json:"policy,omitempty"`
	ProtectionLimit *string `json:"protection_limit,omitempty"`
}

// InterestDTO is returned after interest has been credited.
type InterestDTO struct {
	AccountID string `json:"account_id"`
	Interest  string `json:"interest"`
	Balance   string `json:"balance"`
}

func ToAccountDTO(acc account.Account) AccountDTO {
	s := account.SnapshotOf(acc)
	dto := AccountDTO{
		ID:      s.ID,
		Owner:   s.Owner,
		Kind:    string(s.Kind),
		Type:    acc.Description(),
		Balance: s.Balance.StringFixed(2),
		Policy:  string(s.Policy),
	}
	switch s.Kind {
	case account.KindChecking:
		v := s.OverdraftLimit.StringFixed(2)
		dto.OverdraftLimit = &v
	case account.KindSavings:
		v := s.Rate.String()
		dto.InterestRate = &v
	}
	if s.ProtectionLimit != nil {
		v := s.ProtectionLimit.StringFixed(2)
		dto.ProtectionLimit = &v
	}
	return dto
}
