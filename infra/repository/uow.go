package repository

import (
	"context"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"gorm.io/gorm"
)

// UoW groups the repositories behind one transaction boundary.
type UoW struct {
	db *gorm.DB
}

func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn in a transaction. Repositories obtained from the UoW passed to
// fn share that transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow *UoW) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: tx})
	})
}

func (u *UoW) Accounts() *AccountRepository { return NewAccountRepository(u.db) }

func (u *UoW) Audit() *AuditStore { return NewAuditStore(u.db) }

// SaveAll upserts every snapshot in one transaction.
func (u *UoW) SaveAll(ctx context.Context, snaps []account.Snapshot) error {
	return u.Do(ctx, func(tx *UoW) error {
		return tx.Accounts().SaveAll(ctx, snaps)
	})
}

func (u *UoW) LoadAll(ctx context.Context) ([]account.Snapshot, error) {
	return u.Accounts().LoadAll(ctx)
}
