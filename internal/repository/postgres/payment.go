package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carshare/internal/domain"
	"carshare/internal/repository"
)

// PaymentRepository is the PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	db Querier
}

// NewPaymentRepository creates a payment repository backed by the given
// database. Payments are single-statement units of work, so no
// transaction-scoped constructor exists for them.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, rental_id, status, kind, session_id, session_url, amount_cents, created_at`

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, rental_id, status, kind, session_id, session_url, amount_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.RentalID, payment.Status, payment.Kind,
		payment.SessionID, payment.SessionURL, payment.AmountCents, payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE session_id = $1`

	var payment domain.Payment
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&payment.ID, &payment.RentalID, &payment.Status, &payment.Kind,
		&payment.SessionID, &payment.SessionURL, &payment.AmountCents, &payment.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("querying payment: %w", err)
	}
	return &payment, nil
}

// UpdateStatus is a compare-and-swap on the payment's status so concurrent
// confirmations and cancellations cannot both win.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	query := `UPDATE payments SET status = $3 WHERE id = $1 AND status = $2`

	res, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("checking payment existence: %w", err)
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}
	return nil
}

func (r *PaymentRepository) ListByUserID(ctx context.Context, userID string) ([]repository.PaymentWithRental, error) {
	query := `
		SELECT p.id, p.rental_id, p.status, p.kind, p.session_id, p.session_url, p.amount_cents, p.created_at
		FROM payments p
		JOIN rentals r ON r.id = p.rental_id
		WHERE r.user_id = $1
		ORDER BY p.created_at, p.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying payments: %w", err)
	}
	defer rows.Close()

	var payments []repository.PaymentWithRental
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(&payment.ID, &payment.RentalID, &payment.Status,
			&payment.Kind, &payment.SessionID, &payment.SessionURL,
			&payment.AmountCents, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, repository.PaymentWithRental{
			Payment:  payment,
			RentalID: payment.RentalID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}
	return payments, nil
}
