package bank

import (
	"fmt"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
)

// Snapshot captures every registered account, ordered by identifier.
func (b *Bank) Snapshot() []account.Snapshot {
	accs := b.Accounts()
	snaps := make([]account.Snapshot, 0, len(accs))
	for _, acc := range accs {
		snaps = append(snaps, account.SnapshotOf(acc))
	}
	return snaps
}

// Restore registers accounts rebuilt from snapshots, replacing any account
// with the same identifier. Nothing is registered if one snapshot fails.
func (b *Bank) Restore(snaps []account.Snapshot) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	restored := make([]account.Account, 0, len(snaps))
	for _, s := range snaps {
		acc, err := account.Restore(b.factory, s, b.policyOpts, account.WithListeners(b.listeners...))
		if err != nil {
			return fmt.Errorf("restore accounts: %w", err)
		}
		restored = append(restored, acc)
	}
	for _, acc := range restored {
		b.register(acc)
	}
	b.logger.Info("Accounts restored", "count", len(restored))
	return nil
}
