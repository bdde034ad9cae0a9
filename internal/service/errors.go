package service

import "errors"

var (
	// ErrInvalidCarID is returned when a car ID is empty.
	ErrInvalidCarID = errors.New("invalid car id")

	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRentalID is returned when a rental ID is empty.
	ErrInvalidRentalID = errors.New("invalid rental id")

	// ErrInvalidCarType is returned when a car type is not one of the known types.
	ErrInvalidCarType = errors.New("invalid car type")

	// ErrInvalidInventory is returned when a car's inventory is negative.
	ErrInvalidInventory = errors.New("invalid inventory")

	// ErrInvalidDailyFee is returned when a car's daily fee is not positive.
	ErrInvalidDailyFee = errors.New("invalid daily fee")

	// ErrInvalidRentalPeriod is returned when the return date does not
	// fall strictly after the rental date.
	ErrInvalidRentalPeriod = errors.New("return date must be after rental date")

	// ErrCarNotAvailable is returned when a car has no units left to rent.
	ErrCarNotAvailable = errors.New("car not available")

	// ErrRentalAlreadyCompleted is returned when returning a rental that
	// already has an actual return date.
	ErrRentalAlreadyCompleted = errors.New("rental already completed")

	// ErrRentalNotCompleted is returned when a fine is requested for a
	// rental that has not been returned yet.
	ErrRentalNotCompleted = errors.New("rental not completed")

	// ErrRentalNotOverdue is returned when a fine is requested for a rental
	// that was returned on time.
	ErrRentalNotOverdue = errors.New("rental is not overdue")

	// ErrInvalidPaymentKind is returned when a payment kind is not CHARGE or FINE.
	ErrInvalidPaymentKind = errors.New("invalid payment kind")

	// ErrInvalidSessionID is returned when a checkout session ID is empty.
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrPaymentCancelled is returned when confirming a payment whose
	// session was already cancelled.
	ErrPaymentCancelled = errors.New("payment already cancelled")

	// ErrPaymentPaid is returned when cancelling a payment that already settled.
	ErrPaymentPaid = errors.New("payment already paid")

	// ErrPaymentGateway is returned when the external payment provider
	// fails to open a checkout session.
	ErrPaymentGateway = errors.New("payment gateway failure")

	// ErrForbidden is returned when the actor's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted for role")

	// ErrInvalidEmail is returned when an email address is empty or malformed.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidPassword is returned when a password is too short.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidRole is returned when a role is not MANAGER or CUSTOMER.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
