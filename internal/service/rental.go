package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"carshare/internal/domain"
	"carshare/internal/repository"
)

// RentalService handles the rental lifecycle. Inventory movements and rental
// rows always change together inside one transaction.
type RentalService struct {
	txManager           repository.TxManager
	rentalRepo          repository.RentalRepository
	carRepo             repository.CarRepository
	userRepo            repository.UserRepository
	notificationService *NotificationService
}

// NewRentalService creates a new RentalService.
func NewRentalService(
	txManager repository.TxManager,
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	notificationService *NotificationService,
) *RentalService {
	return &RentalService{
		txManager:           txManager,
		rentalRepo:          rentalRepo,
		carRepo:             carRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// CreateRentalRequest contains the parameters for opening a rental.
// UserID is only honored for managers renting on a customer's behalf;
// customers always rent for themselves.
type CreateRentalRequest struct {
	Actor      domain.Actor
	CarID      string
	UserID     string
	RentalDate time.Time
	ReturnDate time.Time
}

// CreateRental reserves one unit of the car and opens a rental, atomically.
// When no unit is available the rental is not created and ErrCarNotAvailable
// is returned.
func (s *RentalService) CreateRental(ctx context.Context, req CreateRentalRequest) (*domain.Rental, error) {
	if req.CarID == "" {
		return nil, ErrInvalidCarID
	}

	userID := req.Actor.UserID
	if req.Actor.Role == domain.RoleManager && req.UserID != "" {
		userID = req.UserID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if !req.ReturnDate.After(req.RentalDate) {
		return nil, ErrInvalidRentalPeriod
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		ID:         uuid.New().String(),
		CarID:      req.CarID,
		UserID:     userID,
		RentalDate: req.RentalDate,
		ReturnDate: req.ReturnDate,
		CreatedAt:  time.Now(),
	}

	var car *domain.Car
	err = s.txManager.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		car, err = r.Cars.Reserve(ctx, req.CarID)
		if err != nil {
			if errors.Is(err, repository.ErrNoCapacity) {
				return ErrCarNotAvailable
			}
			return err
		}
		return r.Rentals.Create(ctx, rental)
	})
	if err != nil {
		return nil, err
	}

	// Notify after commit so a delivery failure can't roll the rental back.
	s.notificationService.NotifyRentalCreated(ctx, rental, car, user)

	return rental, nil
}

// ListRentalsRequest contains the parameters for listing rentals.
type ListRentalsRequest struct {
	Actor    domain.Actor
	UserID   *string
	IsActive *bool
}

// ListRentals lists rentals. Customers only ever see their own; managers may
// filter by any user or see all.
func (s *RentalService) ListRentals(ctx context.Context, req ListRentalsRequest) ([]domain.Rental, error) {
	filter := repository.RentalFilter{
		UserID:   req.UserID,
		IsActive: req.IsActive,
	}
	if req.Actor.Role != domain.RoleManager {
		own := req.Actor.UserID
		filter.UserID = &own
	}
	return s.rentalRepo.List(ctx, filter)
}

// GetRental retrieves a rental. Customers can only see their own rentals;
// anyone else's rental is reported as not found.
func (s *RentalService) GetRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	if rentalID == "" {
		return nil, ErrInvalidRentalID
	}
	if actor.Role == domain.RoleManager {
		return s.rentalRepo.GetByID(ctx, rentalID)
	}
	return s.rentalRepo.GetByIDAndUserID(ctx, rentalID, actor.UserID)
}

// CompleteRental records the actual return and releases the car unit,
// atomically. Completing an already-completed rental fails with
// ErrRentalAlreadyCompleted and does not touch inventory.
func (s *RentalService) CompleteRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	rental, err := s.GetRental(ctx, actor, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.ActualReturnDate != nil {
		return nil, ErrRentalAlreadyCompleted
	}

	returnedAt := time.Now()
	var car *domain.Car
	err = s.txManager.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Rentals.SetActualReturn(ctx, rental.ID, returnedAt); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrRentalAlreadyCompleted
			}
			return err
		}
		var err error
		car, err = r.Cars.Release(ctx, rental.CarID)
		return err
	})
	if err != nil {
		return nil, err
	}
	rental.ActualReturnDate = &returnedAt

	if user, userErr := s.userRepo.GetByID(ctx, rental.UserID); userErr == nil {
		s.notificationService.NotifyRentalReturned(ctx, rental, car, user)
	} else {
		log.Printf("[RENTAL] skipping notification, user %s not loaded: %v", rental.UserID, userErr)
	}

	return rental, nil
}
