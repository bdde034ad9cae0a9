package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carshare/internal/domain"
	"carshare/internal/repository"
)

// CarRepository is the PostgreSQL implementation of repository.CarRepository.
type CarRepository struct {
	db Querier
}

// NewCarRepository creates a car repository backed by the given database.
func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{db: db}
}

// NewCarRepositoryWithTx creates a car repository scoped to a transaction.
func NewCarRepositoryWithTx(tx *sql.Tx) *CarRepository {
	return &CarRepository{db: tx}
}

const carColumns = `id, brand, model, type, inventory, daily_fee_cents, is_deleted, created_at`

func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (id, brand, model, type, inventory, daily_fee_cents, is_deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		car.ID, car.Brand, car.Model, car.Type, car.Inventory,
		car.DailyFeeCents, car.IsDeleted, car.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting car: %w", err)
	}
	return nil
}

func (r *CarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 AND is_deleted = false`

	car, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("querying car: %w", err)
	}
	return car, nil
}

func (r *CarRepository) List(ctx context.Context, page, pageSize int) ([]domain.Car, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cars WHERE is_deleted = false`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting cars: %w", err)
	}

	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE is_deleted = false
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("querying cars: %w", err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var car domain.Car
		if err := rows.Scan(&car.ID, &car.Brand, &car.Model, &car.Type,
			&car.Inventory, &car.DailyFeeCents, &car.IsDeleted, &car.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning car: %w", err)
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating cars: %w", err)
	}
	return cars, total, nil
}

func (r *CarRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `
		UPDATE cars
		SET brand = $2, model = $3, type = $4, daily_fee_cents = $5
		WHERE id = $1 AND is_deleted = false`

	res, err := r.db.ExecContext(ctx, query,
		car.ID, car.Brand, car.Model, car.Type, car.DailyFeeCents)
	if err != nil {
		return fmt.Errorf("updating car: %w", err)
	}
	return requireRowAffected(res, repository.ErrNotFound)
}

func (r *CarRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE cars SET is_deleted = true WHERE id = $1 AND is_deleted = false`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting car: %w", err)
	}
	return requireRowAffected(res, repository.ErrNotFound)
}

// Reserve decrements inventory in a single guarded statement so two
// concurrent reserves can never both take the last unit.
func (r *CarRepository) Reserve(ctx context.Context, id string) (*domain.Car, error) {
	query := `
		UPDATE cars
		SET inventory = inventory - 1
		WHERE id = $1 AND inventory > 0 AND is_deleted = false
		RETURNING ` + carColumns

	car, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish a missing car from an exhausted one.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, repository.ErrNoCapacity
		}
		return nil, fmt.Errorf("reserving car unit: %w", err)
	}
	return car, nil
}

func (r *CarRepository) Release(ctx context.Context, id string) (*domain.Car, error) {
	query := `
		UPDATE cars
		SET inventory = inventory + 1
		WHERE id = $1
		RETURNING ` + carColumns

	car, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("releasing car unit: %w", err)
	}
	return car, nil
}

func scanCar(row *sql.Row) (*domain.Car, error) {
	var car domain.Car
	err := row.Scan(&car.ID, &car.Brand, &car.Model, &car.Type,
		&car.Inventory, &car.DailyFeeCents, &car.IsDeleted, &car.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func requireRowAffected(res sql.Result, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return sentinel
	}
	return nil
}
