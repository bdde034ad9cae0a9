package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"carshare/internal/domain"
	"carshare/internal/redis"
	"carshare/internal/repository"
)

// CheckoutGateway opens hosted checkout sessions with an external payment
// provider. Implementations return the provider's session ID and payment URL.
type CheckoutGateway interface {
	OpenSession(ctx context.Context, amountCents int64, description string) (sessionID, sessionURL string, err error)
}

// PaymentService handles payment settlement against the external gateway.
type PaymentService struct {
	paymentRepo         repository.PaymentRepository
	rentalRepo          repository.RentalRepository
	carRepo             repository.CarRepository
	userRepo            repository.UserRepository
	cache               redis.CacheStoreInterface
	gateway             CheckoutGateway
	notificationService *NotificationService
}

// NewPaymentService creates a new PaymentService. The cache may be nil.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	cache redis.CacheStoreInterface,
	gateway CheckoutGateway,
	notificationService *NotificationService,
) *PaymentService {
	return &PaymentService{
		paymentRepo:         paymentRepo,
		rentalRepo:          rentalRepo,
		carRepo:             carRepo,
		userRepo:            userRepo,
		cache:               cache,
		gateway:             gateway,
		notificationService: notificationService,
	}
}

// CreateSessionRequest contains the parameters for opening a checkout session.
type CreateSessionRequest struct {
	Actor    domain.Actor
	RentalID string
	Kind     string
}

// CreateSession computes the amount owed for a rental, opens a checkout
// session, and persists a PENDING payment. A FINE can only be created for a
// completed, overdue rental.
func (s *PaymentService) CreateSession(ctx context.Context, req CreateSessionRequest) (*domain.Payment, error) {
	if req.RentalID == "" {
		return nil, ErrInvalidRentalID
	}
	if !domain.ValidPaymentKind(domain.PaymentKind(req.Kind)) {
		return nil, ErrInvalidPaymentKind
	}
	kind := domain.PaymentKind(req.Kind)

	var rental *domain.Rental
	var err error
	if req.Actor.Role == domain.RoleManager {
		rental, err = s.rentalRepo.GetByID(ctx, req.RentalID)
	} else {
		rental, err = s.rentalRepo.GetByIDAndUserID(ctx, req.RentalID, req.Actor.UserID)
	}
	if err != nil {
		return nil, err
	}

	car, err := s.catalogEntry(ctx, rental.CarID)
	if err != nil {
		return nil, err
	}

	var amountCents int64
	var description string
	switch kind {
	case domain.PaymentKindCharge:
		amountCents = ChargeAmountCents(rental, car.DailyFeeCents)
		description = fmt.Sprintf("Rental of %s %s", car.Brand, car.Model)
	case domain.PaymentKindFine:
		amountCents, err = FineAmountCents(rental, car.DailyFeeCents)
		if err != nil {
			return nil, err
		}
		description = fmt.Sprintf("Overdue fine for %s %s", car.Brand, car.Model)
	}

	sessionID, sessionURL, err := s.gateway.OpenSession(ctx, amountCents, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentGateway, err)
	}

	payment := &domain.Payment{
		ID:          uuid.New().String(),
		RentalID:    rental.ID,
		Status:      domain.PaymentStatusPending,
		Kind:        kind,
		SessionID:   sessionID,
		SessionURL:  sessionURL,
		AmountCents: amountCents,
		CreatedAt:   time.Now(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ConfirmSuccess marks the payment behind a checkout session as PAID.
// Confirming an already-paid session is a no-op, so gateway callback retries
// are safe. Confirming a cancelled session fails.
func (s *PaymentService) ConfirmSuccess(ctx context.Context, sessionID string) (*domain.Payment, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	payment, err := s.paymentRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case domain.PaymentStatusPaid:
		return payment, nil
	case domain.PaymentStatusCancelled:
		return nil, ErrPaymentCancelled
	}

	err = s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusPending, domain.PaymentStatusPaid)
	if err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		// Lost the race; re-read to see who won.
		payment, err = s.paymentRepo.GetBySessionID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if payment.Status == domain.PaymentStatusPaid {
			return payment, nil
		}
		return nil, ErrPaymentCancelled
	}
	payment.Status = domain.PaymentStatusPaid

	s.notifyOwner(ctx, payment, func(user *domain.User) {
		s.notificationService.NotifyPaymentSuccess(ctx, payment, user)
	})
	return payment, nil
}

// Cancel marks the payment behind a checkout session as CANCELLED.
// Cancelling an already-cancelled session is a no-op; cancelling a settled
// payment fails with ErrPaymentPaid.
func (s *PaymentService) Cancel(ctx context.Context, sessionID string) (*domain.Payment, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	payment, err := s.paymentRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case domain.PaymentStatusCancelled:
		return payment, nil
	case domain.PaymentStatusPaid:
		return nil, ErrPaymentPaid
	}

	err = s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusPending, domain.PaymentStatusCancelled)
	if err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		payment, err = s.paymentRepo.GetBySessionID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if payment.Status == domain.PaymentStatusCancelled {
			return payment, nil
		}
		return nil, ErrPaymentPaid
	}
	payment.Status = domain.PaymentStatusCancelled

	s.notifyOwner(ctx, payment, func(user *domain.User) {
		s.notificationService.NotifyPaymentCancelled(ctx, payment, user)
	})
	return payment, nil
}

// ListPaymentsRequest contains the parameters for listing payments.
type ListPaymentsRequest struct {
	Actor  domain.Actor
	UserID string
}

// ListPayments lists payments by rental owner. Customers only ever see their
// own; managers may list any user's.
func (s *PaymentService) ListPayments(ctx context.Context, req ListPaymentsRequest) ([]repository.PaymentWithRental, error) {
	userID := req.Actor.UserID
	if req.Actor.Role == domain.RoleManager && req.UserID != "" {
		userID = req.UserID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.paymentRepo.ListByUserID(ctx, userID)
}

// catalogEntry resolves the pricing fields of a car, serving from the redis
// catalog cache when possible. Inventory is irrelevant here, so a cached
// entry is authoritative.
func (s *PaymentService) catalogEntry(ctx context.Context, carID string) (*redis.CachedCar, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCar(ctx, carID); err == nil && cached != nil {
			return cached, nil
		}
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	entry := &redis.CachedCar{
		ID:            car.ID,
		Brand:         car.Brand,
		Model:         car.Model,
		Type:          string(car.Type),
		DailyFeeCents: car.DailyFeeCents,
	}
	if s.cache != nil {
		if cacheErr := s.cache.SetCar(ctx, entry); cacheErr != nil {
			log.Printf("[CACHE] failed to cache car %s: %v", car.ID, cacheErr)
		}
	}
	return entry, nil
}

func (s *PaymentService) notifyOwner(ctx context.Context, payment *domain.Payment, notify func(*domain.User)) {
	rental, err := s.rentalRepo.GetByID(ctx, payment.RentalID)
	if err != nil {
		log.Printf("[PAYMENT] skipping notification, rental %s not loaded: %v", payment.RentalID, err)
		return
	}
	user, err := s.userRepo.GetByID(ctx, rental.UserID)
	if err != nil {
		log.Printf("[PAYMENT] skipping notification, user %s not loaded: %v", rental.UserID, err)
		return
	}
	notify(user)
}
