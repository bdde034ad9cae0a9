package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// PaymentKind distinguishes the base rental charge from an overdue fine.
type PaymentKind string

const (
	PaymentKindCharge PaymentKind = "CHARGE"
	PaymentKindFine   PaymentKind = "FINE"
)

// ValidPaymentKind reports whether k is a known payment kind.
func ValidPaymentKind(k PaymentKind) bool {
	return k == PaymentKindCharge || k == PaymentKindFine
}

// Payment represents one checkout attempt against a rental.
// AmountCents is fixed at creation and never recomputed. Records are never
// deleted; PAID and CANCELLED are terminal, providing an audit trail.
type Payment struct {
	ID          string
	RentalID    string
	Status      PaymentStatus
	Kind        PaymentKind
	SessionID   string
	SessionURL  string
	AmountCents int64
	CreatedAt   time.Time
}
