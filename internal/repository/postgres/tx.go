package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"carshare/internal/repository"
)

// TxManager runs repository work inside a single database transaction.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a transaction manager for the given database.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx begins a transaction, hands transaction-scoped repositories to fn,
// and commits when fn returns nil. Any error (or panic) rolls everything back.
func (m *TxManager) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	repos := repository.Repositories{
		Cars:    NewCarRepositoryWithTx(tx),
		Rentals: NewRentalRepositoryWithTx(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
