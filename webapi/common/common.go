// Package common holds the response envelope, error mapping and request
// binding shared by the HTTP handlers.
package common

import (
	"errors"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

var validate = validator.New()

func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ProblemDetailsJSON writes an application/problem+json response. The status
// comes from ErrorToStatusCode unless an int is passed in args; a string in
// args overrides the detail taken from err.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	status := ErrorToStatusCode(err)
	pd := ProblemDetails{Type: "about:blank", Title: title}
	if err != nil {
		pd.Detail = err.Error()
	}
	for _, a := range args {
		switch v := a.(type) {
		case int:
			status = v
		case string:
			pd.Detail = v
		case validator.ValidationErrors:
			pd.Errors = fieldErrors(v)
		}
	}
	pd.Status = status
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(pd)
}

// ErrorToStatusCode maps ledger errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return fiber.StatusInternalServerError
	case errors.Is(err, account.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrSameAccount),
		errors.Is(err, account.ErrUnknownAccountType),
		errors.Is(err, account.ErrInvalidOwner),
		errors.Is(err, interest.ErrUnknownPolicy):
		return fiber.StatusBadRequest
	case errors.Is(err, account.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, account.ErrUnsupportedOperation):
		return fiber.StatusConflict
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
}

// ErrorReason returns a short label for err, used in metrics.
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, account.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, account.ErrSameAccount):
		return "same_account"
	case errors.Is(err, account.ErrUnknownAccountType):
		return "unknown_type"
	case errors.Is(err, account.ErrInvalidOwner):
		return "invalid_owner"
	case errors.Is(err, interest.ErrUnknownPolicy):
		return "unknown_policy"
	case errors.Is(err, account.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, account.ErrUnsupportedOperation):
		return "unsupported"
	case errors.Is(err, account.ErrNotification):
		return "notification"
	default:
		return "internal"
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, ProblemDetailsJSON(c, "Validation failed", err, verrs, fiber.StatusBadRequest)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}

// ParseDecimal parses s, treating an empty string as zero.
func ParseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
