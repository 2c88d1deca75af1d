package repository

import (
	"context"
	"fmt"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository stores account snapshots.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// SaveAll inserts or updates every snapshot by id.
func (r *AccountRepository) SaveAll(ctx context.Context, snaps []account.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	models := make([]Account, 0, len(snaps))
	for _, s := range snaps {
		models = append(models, accountFromSnapshot(s))
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"owner", "kind", "balance", "overdraft_limit", "rate", "policy", "policy_bonus", "protection_limit", "updated_at"}),
		}).
		Create(&models).Error
	if err != nil {
		return fmt.Errorf("save accounts: %w", MapGormError(err))
	}
	return nil
}

// LoadAll returns every stored snapshot ordered by id.
func (r *AccountRepository) LoadAll(ctx context.Context) ([]account.Snapshot, error) {
	var models []Account
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("load accounts: %w", MapGormError(err))
	}
	snaps := make([]account.Snapshot, 0, len(models))
	for _, m := range models {
		snaps = append(snaps, m.snapshot())
	}
	return snaps, nil
}

// Get returns one snapshot or account.ErrAccountNotFound.
func (r *AccountRepository) Get(ctx context.Context, id string) (account.Snapshot, error) {
	var m Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return account.Snapshot{}, MapGormError(err)
	}
	return m.snapshot(), nil
}
