package domain

import "time"

// Rental represents one user renting one car unit.
// ActualReturnDate is nil while the rental is open; once set it is never
// cleared or changed — completion is terminal.
type Rental struct {
	ID               string
	CarID            string
	UserID           string
	RentalDate       time.Time
	ReturnDate       time.Time
	ActualReturnDate *time.Time
	CreatedAt        time.Time
}

// IsActive reports whether the rental is still open.
func (r *Rental) IsActive() bool {
	return r.ActualReturnDate == nil
}

// IsOverdue reports whether the rental is open past its planned return date.
func (r *Rental) IsOverdue(now time.Time) bool {
	return r.ActualReturnDate == nil && r.ReturnDate.Before(now)
}
