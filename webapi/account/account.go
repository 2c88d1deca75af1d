// Package account exposes the ledger operations over HTTP.
package account

import (
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/service/bank"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
)

// Rejections counts failed operations. It may be nil.
type Rejections interface {
	Rejected(operation, reason string)
}

type handlers struct {
	bank *bank.Bank
	rej  Rejections
}

// Routes registers the ledger endpoints.
//
// Routes:
//   - POST /accounts                          : Open an account.
//   - GET  /accounts                          : List accounts ordered by id.
//   - GET  /accounts/:id                      : Show one account.
//   - POST /accounts/:id/deposit              : Deposit funds.
//   - POST /accounts/:id/withdraw             : Withdraw funds.
//   - POST /accounts/:id/interest             : Credit interest on a savings account.
//   - PUT  /accounts/:id/interest-policy      : Change the interest policy.
//   - POST /accounts/:id/overdraft-protection : Wrap the account with overdraft protection.
//   - POST /transfers                         : Move funds between two accounts.
//   - GET  /history                           : Read the transaction log.
func Routes(app *fiber.App, b *bank.Bank, rej Rejections) {
	h := &handlers{bank: b, rej: rej}
	app.Post("/accounts", h.CreateAccount)
	app.Get("/accounts", h.ListAccounts)
	app.Get("/accounts/:id", h.GetAccount)
	app.Post("/accounts/:id/deposit", h.Deposit)
	app.Post("/accounts/:id/withdraw", h.Withdraw)
	app.Post("/accounts/:id/interest", h.CalculateInterest)
	app.Put("/accounts/:id/interest-policy", h.SetInterestPolicy)
	app.Post("/accounts/:id/overdraft-protection", h.EnableOverdraftProtection)
	app.Post("/transfers", h.Transfer)
	app.Get("/history", h.History)
}

func (h *handlers) fail(c *fiber.Ctx, op, title string, err error) error {
	if h.rej != nil {
		h.rej.Rejected(op, common.ErrorReason(err))
	}
	log.Errorf("%s: %v", title, err)
	return common.ProblemDetailsJSON(c, title, err)
}

func (h *handlers) accountResponse(c *fiber.Ctx, status int, message, id string) error {
	acc, err := h.bank.Account(id)
	if err != nil {
		return common.ProblemDetailsJSON(c, "Account not found", err)
	}
	return common.SuccessResponseJSON(c, status, message, ToAccountDTO(acc))
}

func parseAmount(c *fiber.Ctx, s string) (decimal.Decimal, bool, error) {
	d, err := common.ParseDecimal(s)
	if err != nil {
		return decimal.Zero, false, common.ProblemDetailsJSON(c, "Invalid amount", err, fiber.StatusBadRequest)
	}
	return d, true, nil
}

func (h *handlers) CreateAccount(c *fiber.Ctx) error {
	input, err := common.BindAndValidate[CreateAccountRequest](c)
	if input == nil {
		return err // error response already written
	}
	initial, ok, err := parseAmount(c, input.InitialBalance)
	if !ok {
		return err
	}

	kind := account.ParseKind(input.Kind)
	var params []decimal.Decimal
	switch kind {
	case account.KindChecking:
		limit, ok, err := parseAmount(c, input.OverdraftLimit)
		if !ok {
			return err
		}
		params = append(params, limit)
	case account.KindSavings:
		rate, ok, err := parseAmount(c, input.InterestRate)
		if !ok {
			return err
		}
		params = append(params, rate)
	}

	id, err := h.bank.CreateAccount(kind, input.Owner, initial, params...)
	if err != nil {
		return h.fail(c, "create", "Failed to create account", err)
	}
	return h.accountResponse(c, fiber.StatusCreated, "Account created", id)
}

func (h *handlers) ListAccounts(c *fiber.Ctx) error {
	accs := h.bank.Accounts()
	out := make([]AccountDTO, 0, len(accs))
	for _, acc := range accs {
		out = append(out, ToAccountDTO(acc))
	}
	return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", out)
}

func (h *handlers) GetAccount(c *fiber.Ctx) error {
	acc, err := h.bank.Account(c.Params("id"))
	if err != nil {
		return common.ProblemDetailsJSON(c, "Account not found", err)
	}
	return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountDTO(acc))
}

func (h *handlers) Deposit(c *fiber.Ctx) error {
	id := c.Params("id")
	input, err := common.BindAndValidate[AmountRequest](c)
	if input == nil {
		return err
	}
	amount, ok, err := parseAmount(c, input.Amount)
	if !ok {
		return err
	}
	if err := h.bank.Deposit(id, amount); err != nil {
		return h.fail(c, "deposit", "Failed to deposit", err)
	}
	return h.accountResponse(c, fiber.StatusOK, "Deposit successful", id)
}

func (h *handlers) Withdraw(c *fiber.Ctx) error {
	id := c.Params("id")
	input, err := common.BindAndValidate[AmountRequest](c)
	if input == nil {
		return err
	}
	amount, ok, err := parseAmount(c, input.Amount)
	if !ok {
		return err
	}
	if err := h.bank.Withdraw(id, amount); err != nil {
		return h.fail(c, "withdraw", "Failed to withdraw", err)
	}
	return h.accountResponse(c, fiber.StatusOK, "Withdrawal successful", id)
}

func (h *handlers) Transfer(c *fiber.Ctx) error {
	input, err := common.BindAndValidate[TransferRequest](c)
	if input == nil {
		return err
	}
	amount, ok, err := parseAmount(c, input.Amount)
	if !ok {
		return err
	}
	if err := h.bank.Transfer(input.From, input.To, amount); err != nil {
		return h.fail(c, "transfer", "Failed to transfer", err)
	}

	from, _ := h.bank.Account(input.From)
	to, _ := h.bank.Account(input.To)
	return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", fiber.Map{
		"from": ToAccountDTO(from),
		"to":   ToAccountDTO(to),
	})
}

func (h *handlers) CalculateInterest(c *fiber.Ctx) error {
	id := c.Params("id")
	amount, err := h.bank.CalculateInterest(id)
	if err != nil {
		return h.fail(c, "interest", "Failed to calculate interest", err)
	}
	balance, err := h.bank.Balance(id)
	if err != nil {
		return common.ProblemDetailsJSON(c, "Account not found", err)
	}
	return common.SuccessResponseJSON(c, fiber.StatusOK, "Interest credited", InterestDTO{
		AccountID: id,
		Interest:  amount.StringFixed(2),
		Balance:   balance.StringFixed(2),
	})
}

func (h *handlers) SetInterestPolicy(c *fiber.Ctx) error {
	id := c.Params("id")
	input, err := common.BindAndValidate[PolicyRequest](c)
	if input == nil {
		return err
	}
	if err := h.bank.SetInterestPolicyByName(id, interest.Kind(input.Policy)); err != nil {
		return h.fail(c, "policy", "Failed to change interest policy", err)
	}
	return h.accountResponse(c, fiber.StatusOK, "Interest policy changed", id)
}

func (h *handlers) EnableOverdraftProtection(c *fiber.Ctx) error {
	id := c.Params("id")
	input, err := common.BindAndValidate[ProtectionRequest](c)
	if input == nil {
		return err
	}
	limit, ok, err := parseAmount(c, input.Limit)
	if !ok {
		return err
	}
	if err := h.bank.EnableOverdraftProtection(id, limit); err != nil {
		return h.fail(c, "protect", "Failed to enable overdraft protection", err)
	}
	return h.accountResponse(c, fiber.StatusOK, "Overdraft protection enabled", id)
}

func (h *handlers) History(c *fiber.Ctx) error {
	lines, err := h.bank.History()
	if err != nil {
		return common.ProblemDetailsJSON(c, "Failed to read history", err)
	}
	if lines == nil {
		lines = []string{}
	}
	return common.SuccessResponseJSON(c, fiber.StatusOK, "History fetched", lines)
}
