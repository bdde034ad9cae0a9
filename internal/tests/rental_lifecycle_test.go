package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"carshare/internal/domain"
	"carshare/internal/repository"
	"carshare/internal/service"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newRentalFixture() (*service.RentalService, *MockCarRepository, *MockRentalRepository, *MockUserRepository, *CaptureSender) {
	carRepo := NewMockCarRepository()
	rentalRepo := NewMockRentalRepository()
	userRepo := NewMockUserRepository()
	sender := NewCaptureSender()
	txManager := NewMockTxManager(carRepo, rentalRepo)
	svc := service.NewRentalService(txManager, rentalRepo, carRepo, userRepo,
		service.NewNotificationService(sender))
	return svc, carRepo, rentalRepo, userRepo, sender
}

func customer(id string) domain.Actor {
	return domain.Actor{UserID: id, Role: domain.RoleCustomer}
}

func manager(id string) domain.Actor {
	return domain.Actor{UserID: id, Role: domain.RoleManager}
}

func TestRental_CreateReservesUnit(t *testing.T) {
	t.Parallel()

	svc, carRepo, rentalRepo, userRepo, sender := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Brand: "Toyota", Model: "Corolla", Type: domain.CarTypeSedan, Inventory: 2, DailyFeeCents: 5000})
	userRepo.AddUser(&domain.User{ID: "user-1", Email: "u1@example.com", FirstName: "Ann", LastName: "Lee"})

	rental, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		Actor:      customer("user-1"),
		CarID:      "car-1",
		RentalDate: date(2025, time.March, 10),
		ReturnDate: date(2025, time.March, 15),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rental.UserID != "user-1" {
		t.Errorf("expected rental owner user-1, got %s", rental.UserID)
	}
	if got := carRepo.GetInventory("car-1"); got != 1 {
		t.Errorf("expected inventory 1 after reserve, got %d", got)
	}
	if rentalRepo.CountRentals() != 1 {
		t.Errorf("expected 1 rental, got %d", rentalRepo.CountRentals())
	}
	if sender.Count() != 1 {
		t.Errorf("expected 1 notification, got %d", sender.Count())
	}
}

func TestRental_CreateFailsWhenNoUnits(t *testing.T) {
	t.Parallel()

	svc, carRepo, rentalRepo, userRepo, _ := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Inventory: 0, DailyFeeCents: 5000})
	userRepo.AddUser(&domain.User{ID: "user-1"})

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		Actor:      customer("user-1"),
		CarID:      "car-1",
		RentalDate: date(2025, time.March, 10),
		ReturnDate: date(2025, time.March, 15),
	})
	if !errors.Is(err, service.ErrCarNotAvailable) {
		t.Fatalf("expected ErrCarNotAvailable, got %v", err)
	}

	if rentalRepo.CountRentals() != 0 {
		t.Errorf("expected no rental rows, got %d", rentalRepo.CountRentals())
	}
	if got := carRepo.GetInventory("car-1"); got != 0 {
		t.Errorf("inventory must stay 0, got %d", got)
	}
}

func TestRental_CreateInvalidPeriod(t *testing.T) {
	t.Parallel()

	svc, carRepo, _, userRepo, _ := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Inventory: 1, DailyFeeCents: 5000})
	userRepo.AddUser(&domain.User{ID: "user-1"})

	cases := []struct {
		name            string
		rentalDate, due time.Time
	}{
		{"same day", date(2025, time.March, 10), date(2025, time.March, 10)},
		{"due before start", date(2025, time.March, 10), date(2025, time.March, 5)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
				Actor:      customer("user-1"),
				CarID:      "car-1",
				RentalDate: tc.rentalDate,
				ReturnDate: tc.due,
			})
			if !errors.Is(err, service.ErrInvalidRentalPeriod) {
				t.Fatalf("expected ErrInvalidRentalPeriod, got %v", err)
			}
		})
	}

	if got := carRepo.GetInventory("car-1"); got != 1 {
		t.Errorf("inventory must be untouched, got %d", got)
	}
}

func TestRental_CreateSameDayLaterReturn(t *testing.T) {
	t.Parallel()

	svc, carRepo, rentalRepo, userRepo, _ := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Inventory: 1, DailyFeeCents: 5000})
	userRepo.AddUser(&domain.User{ID: "user-1"})

	// Return strictly after the start, even within one calendar day, is a
	// valid period.
	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		Actor:      customer("user-1"),
		CarID:      "car-1",
		RentalDate: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		ReturnDate: time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := carRepo.GetInventory("car-1"); got != 0 {
		t.Errorf("expected inventory 0 after reserve, got %d", got)
	}
	if rentalRepo.CountRentals() != 1 {
		t.Errorf("expected 1 rental, got %d", rentalRepo.CountRentals())
	}
}

func TestRental_CreateUnknownUserFails(t *testing.T) {
	t.Parallel()

	svc, carRepo, rentalRepo, _, _ := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Inventory: 1, DailyFeeCents: 5000})

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		Actor:      customer("ghost"),
		CarID:      "car-1",
		RentalDate: date(2025, time.March, 10),
		ReturnDate: date(2025, time.March, 15),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
	if got := carRepo.GetInventory("car-1"); got != 1 {
		t.Errorf("inventory must be untouched, got %d", got)
	}
	if rentalRepo.CountRentals() != 0 {
		t.Errorf("expected no rental rows, got %d", rentalRepo.CountRentals())
	}
}

func TestRental_ConcurrentCreates_ExactlyInventorySucceed(t *testing.T) {
	t.Parallel()

	const units = 3
	const attempts = 10

	svc, carRepo, rentalRepo, userRepo, _ := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Inventory: units, DailyFeeCents: 5000})
	userRepo.AddUser(&domain.User{ID: "user-1"})

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateRental(context.Background(), service.CreateRentalRequest{
				Actor:      customer("user-1"),
				CarID:      "car-1",
				RentalDate: date(2025, time.March, 10),
				ReturnDate: date(2025, time.March, 15),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrCarNotAvailable):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != units {
		t.Errorf("expected exactly %d successful rentals, got %d", units, succeeded)
	}
	if rentalRepo.CountRentals() != units {
		t.Errorf("expected %d rental rows, got %d", units, rentalRepo.CountRentals())
	}
	if got := carRepo.GetInventory("car-1"); got != 0 {
		t.Errorf("expected inventory 0, got %d", got)
	}
}

func TestRental_CreateRollsBackReservationOnFailure(t *testing.T) {
	t.Parallel()

	svc, carRepo, rentalRepo, userRepo, _ := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Inventory: 1, DailyFeeCents: 5000})
	userRepo.AddUser(&domain.User{ID: "user-1"})
	rentalRepo.CreateError = ErrMockDB

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		Actor:      customer("user-1"),
		CarID:      "car-1",
		RentalDate: date(2025, time.March, 10),
		ReturnDate: date(2025, time.March, 15),
	})
	if !errors.Is(err, ErrMockDB) {
		t.Fatalf("expected mock DB error, got %v", err)
	}

	if got := carRepo.GetInventory("car-1"); got != 1 {
		t.Errorf("reservation must roll back with the rental, inventory = %d", got)
	}
}

func TestRental_CompleteReleasesUnit(t *testing.T) {
	t.Parallel()

	svc, carRepo, rentalRepo, userRepo, sender := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Brand: "Toyota", Model: "Corolla", Inventory: 0, DailyFeeCents: 5000})
	userRepo.AddUser(&domain.User{ID: "user-1", Email: "u1@example.com"})
	rentalRepo.AddRental(&domain.Rental{
		ID:         "rental-1",
		CarID:      "car-1",
		UserID:     "user-1",
		RentalDate: date(2025, time.March, 10),
		ReturnDate: date(2025, time.March, 15),
	})

	rental, err := svc.CompleteRental(context.Background(), customer("user-1"), "rental-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rental.ActualReturnDate == nil {
		t.Fatal("expected actual return date to be set")
	}
	if got := carRepo.GetInventory("car-1"); got != 1 {
		t.Errorf("expected inventory 1 after release, got %d", got)
	}
	if sender.Count() != 1 {
		t.Errorf("expected 1 notification, got %d", sender.Count())
	}
}

func TestRental_CompleteTwiceFails(t *testing.T) {
	t.Parallel()

	svc, carRepo, rentalRepo, userRepo, _ := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Inventory: 0, DailyFeeCents: 5000})
	userRepo.AddUser(&domain.User{ID: "user-1"})
	rentalRepo.AddRental(&domain.Rental{
		ID:         "rental-1",
		CarID:      "car-1",
		UserID:     "user-1",
		RentalDate: date(2025, time.March, 10),
		ReturnDate: date(2025, time.March, 15),
	})

	if _, err := svc.CompleteRental(context.Background(), customer("user-1"), "rental-1"); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}

	_, err := svc.CompleteRental(context.Background(), customer("user-1"), "rental-1")
	if !errors.Is(err, service.ErrRentalAlreadyCompleted) {
		t.Fatalf("expected ErrRentalAlreadyCompleted, got %v", err)
	}

	// Inventory must be incremented exactly once.
	if got := carRepo.GetInventory("car-1"); got != 1 {
		t.Errorf("expected inventory 1, got %d", got)
	}
}

func TestRental_CustomerSeesOnlyOwnRentals(t *testing.T) {
	t.Parallel()

	svc, _, rentalRepo, _, _ := newRentalFixture()
	rentalRepo.AddRental(&domain.Rental{ID: "rental-1", UserID: "user-1", CarID: "car-1"})
	rentalRepo.AddRental(&domain.Rental{ID: "rental-2", UserID: "user-2", CarID: "car-1"})

	// The customer's user_id filter is forced even if they ask for another's.
	otherID := "user-2"
	rentals, err := svc.ListRentals(context.Background(), service.ListRentalsRequest{
		Actor:  customer("user-1"),
		UserID: &otherID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rentals) != 1 || rentals[0].UserID != "user-1" {
		t.Errorf("customer must only see own rentals, got %+v", rentals)
	}

	// A manager with the same filter sees user-2's rental.
	rentals, err = svc.ListRentals(context.Background(), service.ListRentalsRequest{
		Actor:  manager("mgr-1"),
		UserID: &otherID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rentals) != 1 || rentals[0].UserID != "user-2" {
		t.Errorf("manager filter must be honored, got %+v", rentals)
	}
}

func TestRental_ActiveFilterPartitionsOpenAndClosed(t *testing.T) {
	t.Parallel()

	svc, _, rentalRepo, _, _ := newRentalFixture()
	returned := date(2025, time.March, 14)
	rentalRepo.AddRental(&domain.Rental{ID: "rental-1", UserID: "user-1"})
	rentalRepo.AddRental(&domain.Rental{ID: "rental-2", UserID: "user-1", ActualReturnDate: &returned})

	active := true
	rentals, err := svc.ListRentals(context.Background(), service.ListRentalsRequest{
		Actor:    customer("user-1"),
		IsActive: &active,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rentals) != 1 || rentals[0].ID != "rental-1" {
		t.Errorf("expected only the open rental, got %+v", rentals)
	}

	active = false
	rentals, err = svc.ListRentals(context.Background(), service.ListRentalsRequest{
		Actor:    customer("user-1"),
		IsActive: &active,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rentals) != 1 || rentals[0].ID != "rental-2" {
		t.Errorf("expected only the closed rental, got %+v", rentals)
	}
}

func TestRental_CustomerCannotFetchOthersRental(t *testing.T) {
	t.Parallel()

	svc, _, rentalRepo, _, _ := newRentalFixture()
	rentalRepo.AddRental(&domain.Rental{ID: "rental-1", UserID: "user-2"})

	_, err := svc.GetRental(context.Background(), customer("user-1"), "rental-1")
	if err == nil {
		t.Fatal("expected error fetching another user's rental")
	}

	// The manager can fetch it.
	if _, err := svc.GetRental(context.Background(), manager("mgr-1"), "rental-1"); err != nil {
		t.Fatalf("manager fetch failed: %v", err)
	}
}

func TestRental_ManagerCreatesOnBehalfOfCustomer(t *testing.T) {
	t.Parallel()

	svc, carRepo, _, userRepo, _ := newRentalFixture()
	carRepo.AddCar(&domain.Car{ID: "car-1", Inventory: 1, DailyFeeCents: 5000})
	userRepo.AddUser(&domain.User{ID: "user-1"})

	rental, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		Actor:      manager("mgr-1"),
		CarID:      "car-1",
		UserID:     "user-1",
		RentalDate: date(2025, time.March, 10),
		ReturnDate: date(2025, time.March, 15),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rental.UserID != "user-1" {
		t.Errorf("expected rental owner user-1, got %s", rental.UserID)
	}
}
