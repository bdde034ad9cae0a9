package service

import (
	"time"

	"carshare/internal/domain"
)

// FineMultiplier is applied to the daily fee for each overdue day.
const FineMultiplier = 1.5

// elapsedDays counts whole calendar days between two timestamps, measured
// from UTC midnight to UTC midnight. Safe across year boundaries.
func elapsedDays(from, to time.Time) int64 {
	fromDay := from.UTC().Truncate(24 * time.Hour)
	toDay := to.UTC().Truncate(24 * time.Hour)
	return int64(toDay.Sub(fromDay) / (24 * time.Hour))
}

// ChargeAmountCents computes the base rental charge: the daily fee times
// the number of planned rental days. A rental planned within a single
// calendar day is billed as one day.
func ChargeAmountCents(rental *domain.Rental, dailyFeeCents int64) int64 {
	days := elapsedDays(rental.RentalDate, rental.ReturnDate)
	if days < 1 {
		days = 1
	}
	return dailyFeeCents * days
}

// FineAmountCents computes the overdue fine: the daily fee times the number
// of overdue days, times FineMultiplier. The rental must be completed and
// returned after its planned return date.
func FineAmountCents(rental *domain.Rental, dailyFeeCents int64) (int64, error) {
	if rental.ActualReturnDate == nil {
		return 0, ErrRentalNotCompleted
	}
	overdueDays := elapsedDays(rental.ReturnDate, *rental.ActualReturnDate)
	if overdueDays <= 0 {
		return 0, ErrRentalNotOverdue
	}
	return int64(float64(dailyFeeCents) * float64(overdueDays) * FineMultiplier), nil
}
