package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"carshare/internal/domain"
	"carshare/internal/redis"
	"carshare/internal/repository"
)

// CarService handles the car catalog. Reads of catalog fields go through the
// Redis cache; inventory is always read from the database.
type CarService struct {
	carRepo repository.CarRepository
	cache   redis.CacheStoreInterface
}

// NewCarService creates a new CarService. The cache may be nil.
func NewCarService(carRepo repository.CarRepository, cache redis.CacheStoreInterface) *CarService {
	return &CarService{carRepo: carRepo, cache: cache}
}

// CreateCarRequest contains the parameters for adding a car to the catalog.
type CreateCarRequest struct {
	Actor         domain.Actor
	Brand         string
	Model         string
	Type          string
	Inventory     int
	DailyFeeCents int64
}

// CreateCar adds a car to the catalog. Managers only.
func (s *CarService) CreateCar(ctx context.Context, req CreateCarRequest) (*domain.Car, error) {
	if req.Actor.Role != domain.RoleManager {
		return nil, ErrForbidden
	}
	if !domain.ValidCarType(domain.CarType(req.Type)) {
		return nil, ErrInvalidCarType
	}
	if req.Inventory < 0 {
		return nil, ErrInvalidInventory
	}
	if req.DailyFeeCents <= 0 {
		return nil, ErrInvalidDailyFee
	}

	car := &domain.Car{
		ID:            uuid.New().String(),
		Brand:         req.Brand,
		Model:         req.Model,
		Type:          domain.CarType(req.Type),
		Inventory:     req.Inventory,
		DailyFeeCents: req.DailyFeeCents,
		CreatedAt:     time.Now(),
	}
	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

// GetCar retrieves a car and refreshes its catalog cache entry. Inventory is
// always read from the database; only catalog fields are cached.
func (s *CarService) GetCar(ctx context.Context, carID string) (*domain.Car, error) {
	if carID == "" {
		return nil, ErrInvalidCarID
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetCar(ctx, &redis.CachedCar{
			ID:            car.ID,
			Brand:         car.Brand,
			Model:         car.Model,
			Type:          string(car.Type),
			DailyFeeCents: car.DailyFeeCents,
		}); cacheErr != nil {
			log.Printf("[CACHE] failed to cache car %s: %v", car.ID, cacheErr)
		}
	}
	return car, nil
}

// ListCars retrieves a page of the catalog and the total count.
func (s *CarService) ListCars(ctx context.Context, page, pageSize int) ([]domain.Car, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.carRepo.List(ctx, page, pageSize)
}

// UpdateCarRequest contains the parameters for updating a car's catalog fields.
type UpdateCarRequest struct {
	Actor         domain.Actor
	CarID         string
	Brand         string
	Model         string
	Type          string
	DailyFeeCents int64
}

// UpdateCar updates a car's catalog fields. Managers only.
func (s *CarService) UpdateCar(ctx context.Context, req UpdateCarRequest) (*domain.Car, error) {
	if req.Actor.Role != domain.RoleManager {
		return nil, ErrForbidden
	}
	if req.CarID == "" {
		return nil, ErrInvalidCarID
	}
	if !domain.ValidCarType(domain.CarType(req.Type)) {
		return nil, ErrInvalidCarType
	}
	if req.DailyFeeCents <= 0 {
		return nil, ErrInvalidDailyFee
	}

	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	car.Brand = req.Brand
	car.Model = req.Model
	car.Type = domain.CarType(req.Type)
	car.DailyFeeCents = req.DailyFeeCents

	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}
	s.invalidate(ctx, car.ID)
	return car, nil
}

// DeleteCar soft-deletes a car from the catalog. Managers only. Existing
// rentals keep referencing the car; it just stops being rentable.
func (s *CarService) DeleteCar(ctx context.Context, actor domain.Actor, carID string) error {
	if actor.Role != domain.RoleManager {
		return ErrForbidden
	}
	if carID == "" {
		return ErrInvalidCarID
	}
	if err := s.carRepo.SoftDelete(ctx, carID); err != nil {
		return err
	}
	s.invalidate(ctx, carID)
	return nil
}

func (s *CarService) invalidate(ctx context.Context, carID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCar(ctx, carID); err != nil {
		log.Printf("[CACHE] failed to invalidate car %s: %v", carID, err)
	}
}
