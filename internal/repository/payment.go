package repository

import (
	"context"

	"carshare/internal/domain"
)

// PaymentWithRental is a payment projected with its owning rental's ID
// (the rental ID is also the natural grouping key for listings).
type PaymentWithRental struct {
	Payment  domain.Payment
	RentalID string
}

// PaymentRepository defines the persistence operations for payments.
// Payments are never deleted; they form the audit trail.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetBySessionID retrieves a payment by its gateway session ID.
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)

	// UpdateStatus transitions a payment from one status to another as a
	// compare-and-swap. Returns ErrConflict when the payment is no longer
	// in the expected status and ErrNotFound when it is absent.
	UpdateStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error

	// ListByUserID retrieves all payments whose rental belongs to the user.
	ListByUserID(ctx context.Context, userID string) ([]PaymentWithRental, error)
}
