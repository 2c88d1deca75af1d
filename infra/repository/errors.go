package repository

import (
	"errors"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"gorm.io/gorm"
)

// MapGormError converts GORM errors to ledger errors so callers can use
// errors.Is with the domain sentinels.
func MapGormError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return account.ErrAccountNotFound
	}
	return err
}
