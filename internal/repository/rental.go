package repository

import (
	"context"
	"time"

	"carshare/internal/domain"
)

// RentalFilter narrows a rental listing. Nil fields are unset, so the four
// query shapes (userID?) x (isActive?) collapse into one List call.
type RentalFilter struct {
	UserID   *string
	IsActive *bool
}

// RentalRepository defines the persistence operations for rentals.
type RentalRepository interface {
	// Create persists a new rental.
	Create(ctx context.Context, rental *domain.Rental) error

	// GetByID retrieves a rental by ID.
	GetByID(ctx context.Context, id string) (*domain.Rental, error)

	// GetByIDAndUserID retrieves a rental only if it belongs to the user.
	// Returns ErrNotFound otherwise, hiding existence from non-owners.
	GetByIDAndUserID(ctx context.Context, id, userID string) (*domain.Rental, error)

	// List retrieves rentals matching the filter.
	List(ctx context.Context, filter RentalFilter) ([]domain.Rental, error)

	// SetActualReturn records the actual return timestamp. The update is
	// guarded on the rental still being open; returns ErrConflict when it
	// was completed concurrently and ErrNotFound when the rental is absent.
	SetActualReturn(ctx context.Context, id string, returnedAt time.Time) error
}
