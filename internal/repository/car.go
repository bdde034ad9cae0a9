package repository

import (
	"context"

	"carshare/internal/domain"
)

// CarRepository defines the persistence operations for cars.
// Reserve and Release are the only mutation path for a car's inventory.
type CarRepository interface {
	// Create persists a new car.
	Create(ctx context.Context, car *domain.Car) error

	// GetByID retrieves a car by ID. Soft-deleted cars are not visible.
	GetByID(ctx context.Context, id string) (*domain.Car, error)

	// List retrieves a page of cars and the total count.
	List(ctx context.Context, page, pageSize int) ([]domain.Car, int, error)

	// Update updates a car's catalog fields (not inventory).
	Update(ctx context.Context, car *domain.Car) error

	// SoftDelete marks a car as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error

	// Reserve atomically decrements the car's inventory if at least one
	// unit is available, returning the updated car. Returns ErrNoCapacity
	// when inventory is exhausted and ErrNotFound when the car is absent
	// or soft-deleted.
	Reserve(ctx context.Context, id string) (*domain.Car, error)

	// Release atomically increments the car's inventory, returning the
	// updated car. Returns ErrNotFound when the car is absent.
	Release(ctx context.Context, id string) (*domain.Car, error)
}
