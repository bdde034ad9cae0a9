package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"carshare/internal/domain"
	"carshare/internal/repository"
)

// RentalRepository is the PostgreSQL implementation of repository.RentalRepository.
type RentalRepository struct {
	db Querier
}

// NewRentalRepository creates a rental repository backed by the given database.
func NewRentalRepository(db *sql.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

// NewRentalRepositoryWithTx creates a rental repository scoped to a transaction.
func NewRentalRepositoryWithTx(tx *sql.Tx) *RentalRepository {
	return &RentalRepository{db: tx}
}

const rentalColumns = `id, car_id, user_id, rental_date, return_date, actual_return_date, created_at`

func (r *RentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	query := `
		INSERT INTO rentals (id, car_id, user_id, rental_date, return_date, actual_return_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		rental.ID, rental.CarID, rental.UserID, rental.RentalDate,
		rental.ReturnDate, rental.ActualReturnDate, rental.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting rental: %w", err)
	}
	return nil
}

func (r *RentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *RentalRepository) GetByIDAndUserID(ctx context.Context, id, userID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 AND user_id = $2`
	return r.getOne(ctx, query, id, userID)
}

func (r *RentalRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Rental, error) {
	var rental domain.Rental
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&rental.ID, &rental.CarID, &rental.UserID, &rental.RentalDate,
		&rental.ReturnDate, &rental.ActualReturnDate, &rental.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("querying rental: %w", err)
	}
	return &rental, nil
}

func (r *RentalRepository) List(ctx context.Context, filter repository.RentalFilter) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE 1=1`
	var args []any

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if filter.IsActive != nil {
		if *filter.IsActive {
			query += ` AND actual_return_date IS NULL`
		} else {
			query += ` AND actual_return_date IS NOT NULL`
		}
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rental domain.Rental
		if err := rows.Scan(&rental.ID, &rental.CarID, &rental.UserID,
			&rental.RentalDate, &rental.ReturnDate, &rental.ActualReturnDate,
			&rental.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rental: %w", err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rentals: %w", err)
	}
	return rentals, nil
}

// SetActualReturn closes a rental. The IS NULL guard makes a double return
// lose the race instead of silently overwriting the first return time.
func (r *RentalRepository) SetActualReturn(ctx context.Context, id string, returnedAt time.Time) error {
	query := `
		UPDATE rentals
		SET actual_return_date = $2
		WHERE id = $1 AND actual_return_date IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, returnedAt)
	if err != nil {
		return fmt.Errorf("closing rental: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return repository.ErrConflict
	}
	return nil
}
