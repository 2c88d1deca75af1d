package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/audit"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditStore keeps transaction lines in the audit_entries table.
type AuditStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db, now: time.Now}
}

func (s *AuditStore) Append(line string) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	e := AuditEntry{ID: id, Line: line, CreatedAt: s.now()}
	if err := s.db.WithContext(context.Background()).Create(&e).Error; err != nil {
		return fmt.Errorf("append audit entry: %w", MapGormError(err))
	}
	return nil
}

// Lines returns the stored lines, oldest first, stamped like the file sink.
func (s *AuditStore) Lines() ([]string, error) {
	var entries []AuditEntry
	if err := s.db.WithContext(context.Background()).Order("created_at, id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("read audit entries: %w", MapGormError(err))
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.CreatedAt.Format(audit.TimeFormat)+" - "+e.Line)
	}
	return lines, nil
}
