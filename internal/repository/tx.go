package repository

import "context"

// Repositories bundles transaction-scoped repository views.
type Repositories struct {
	Cars    CarRepository
	Rentals RentalRepository
}

// TxManager runs a function within a single transaction boundary. Every
// repository call made through the passed Repositories either commits or
// rolls back as one unit of work.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
