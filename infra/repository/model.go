package repository

import (
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the persisted form of an account snapshot.
type Account struct {
	ID              string              `gorm:"type:varchar(64);primaryKey"`
	Owner           string              `gorm:"not null;size:255"`
	Kind            string              `gorm:"type:varchar(16);not null"`
	Balance         decimal.Decimal     `gorm:"type:decimal(20,8);not null"`
	OverdraftLimit  decimal.Decimal     `gorm:"type:decimal(20,8);not null"`
	Rate            decimal.Decimal     `gorm:"type:decimal(20,8);not null"`
	Policy          string              `gorm:"type:varchar(16)"`
	PolicyBonus     decimal.NullDecimal `gorm:"type:decimal(20,8)"`
	ProtectionLimit decimal.NullDecimal `gorm:"type:decimal(20,8)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AuditEntry is one line written to the transaction log. IDs are UUIDv7, so
// they order entries stamped with the same time.
type AuditEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Line      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

func accountFromSnapshot(s account.Snapshot) Account {
	m := Account{
		ID:             s.ID,
		Owner:          s.Owner,
		Kind:           string(s.Kind),
		Balance:        s.Balance,
		OverdraftLimit: s.OverdraftLimit,
		Rate:           s.Rate,
		Policy:         string(s.Policy),
	}
	if s.PolicyBonus != nil {
		m.PolicyBonus = decimal.NewNullDecimal(*s.PolicyBonus)
	}
	if s.ProtectionLimit != nil {
		m.ProtectionLimit = decimal.NewNullDecimal(*s.ProtectionLimit)
	}
	return m
}

func (m Account) snapshot() account.Snapshot {
	s := account.Snapshot{
		ID:             m.ID,
		Owner:          m.Owner,
		Kind:           account.Kind(m.Kind),
		Balance:        m.Balance,
		OverdraftLimit: m.OverdraftLimit,
		Rate:           m.Rate,
		Policy:         interest.Kind(m.Policy),
	}
	if m.PolicyBonus.Valid {
		bonus := m.PolicyBonus.Decimal
		s.PolicyBonus = &bonus
	}
	if m.ProtectionLimit.Valid {
		limit := m.ProtectionLimit.Decimal
		s.ProtectionLimit = &limit
	}
	return s
}

// Models lists every table owned by the ledger, for AutoMigrate.
func Models() []any {
	return []any{&Account{}, &AuditEntry{}}
}
