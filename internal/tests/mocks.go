package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"carshare/internal/domain"
	"carshare/internal/repository"
	"carshare/internal/service"
)

// ──────────────────────────────────────────────
// MOCK CAR REPOSITORY
// ──────────────────────────────────────────────

// MockCarRepository is a mock implementation of CarRepository.
type MockCarRepository struct {
	mu   sync.RWMutex
	cars map[string]*domain.Car

	// Counters for verification
	ReserveCallCount int32
	ReleaseCallCount int32

	// Error injection
	ReserveError error
	ReleaseError error
}

// NewMockCarRepository creates a new mock car repository.
func NewMockCarRepository() *MockCarRepository {
	return &MockCarRepository{
		cars: make(map[string]*domain.Car),
	}
}

// AddCar adds a car to the mock repository.
func (m *MockCarRepository) AddCar(car *domain.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
}

func (m *MockCarRepository) Create(ctx context.Context, car *domain.Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
	return nil
}

func (m *MockCarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	car, ok := m.cars[id]
	if !ok || car.IsDeleted {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *car
	return &copy, nil
}

func (m *MockCarRepository) List(ctx context.Context, page, pageSize int) ([]domain.Car, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Car
	for _, car := range m.cars {
		if !car.IsDeleted {
			result = append(result, *car)
		}
	}
	return result, len(result), nil
}

func (m *MockCarRepository) Update(ctx context.Context, car *domain.Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cars[car.ID]
	if !ok || existing.IsDeleted {
		return repository.ErrNotFound
	}
	updated := *car
	updated.Inventory = existing.Inventory
	m.cars[car.ID] = &updated
	return nil
}

func (m *MockCarRepository) SoftDelete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok || car.IsDeleted {
		return repository.ErrNotFound
	}
	car.IsDeleted = true
	return nil
}

// Reserve mirrors the database's single-statement conditional decrement:
// the check and the decrement happen under one lock.
func (m *MockCarRepository) Reserve(ctx context.Context, id string) (*domain.Car, error) {
	atomic.AddInt32(&m.ReserveCallCount, 1)
	if m.ReserveError != nil {
		return nil, m.ReserveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok || car.IsDeleted {
		return nil, repository.ErrNotFound
	}
	if car.Inventory <= 0 {
		return nil, repository.ErrNoCapacity
	}
	car.Inventory--
	copy := *car
	return &copy, nil
}

func (m *MockCarRepository) Release(ctx context.Context, id string) (*domain.Car, error) {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	if m.ReleaseError != nil {
		return nil, m.ReleaseError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	car.Inventory++
	copy := *car
	return &copy, nil
}

// GetInventory returns the current inventory for assertions.
func (m *MockCarRepository) GetInventory(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if car, ok := m.cars[id]; ok {
		return car.Inventory
	}
	return -1
}

// snapshot returns a deep copy of the car map.
func (m *MockCarRepository) snapshot() map[string]*domain.Car {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Car, len(m.cars))
	for id, car := range m.cars {
		copy := *car
		snap[id] = &copy
	}
	return snap
}

func (m *MockCarRepository) restore(snap map[string]*domain.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars = snap
}

// ──────────────────────────────────────────────
// MOCK RENTAL REPOSITORY
// ──────────────────────────────────────────────

// MockRentalRepository is a mock implementation of RentalRepository.
type MockRentalRepository struct {
	mu      sync.RWMutex
	rentals map[string]*domain.Rental

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
	ListError   error
}

// NewMockRentalRepository creates a new mock rental repository.
func NewMockRentalRepository() *MockRentalRepository {
	return &MockRentalRepository{
		rentals: make(map[string]*domain.Rental),
	}
}

// AddRental adds a rental to the mock repository.
func (m *MockRentalRepository) AddRental(rental *domain.Rental) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rentals[rental.ID] = rental
}

func (m *MockRentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *rental
	m.rentals[rental.ID] = &copy
	return nil
}

func (m *MockRentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rental, ok := m.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rental
	return &copy, nil
}

func (m *MockRentalRepository) GetByIDAndUserID(ctx context.Context, id, userID string) (*domain.Rental, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rental, ok := m.rentals[id]
	if !ok || rental.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copy := *rental
	return &copy, nil
}

func (m *MockRentalRepository) List(ctx context.Context, filter repository.RentalFilter) ([]domain.Rental, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Rental
	for _, rental := range m.rentals {
		if filter.UserID != nil && rental.UserID != *filter.UserID {
			continue
		}
		if filter.IsActive != nil && rental.IsActive() != *filter.IsActive {
			continue
		}
		result = append(result, *rental)
	}
	return result, nil
}

func (m *MockRentalRepository) SetActualReturn(ctx context.Context, id string, returnedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rental, ok := m.rentals[id]
	if !ok {
		return repository.ErrNotFound
	}
	if rental.ActualReturnDate != nil {
		return repository.ErrConflict
	}
	rental.ActualReturnDate = &returnedAt
	return nil
}

// CountRentals returns the number of stored rentals.
func (m *MockRentalRepository) CountRentals() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rentals)
}

func (m *MockRentalRepository) snapshot() map[string]*domain.Rental {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Rental, len(m.rentals))
	for id, rental := range m.rentals {
		copy := *rental
		snap[id] = &copy
	}
	return snap
}

func (m *MockRentalRepository) restore(snap map[string]*domain.Rental) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rentals = snap
}

// ──────────────────────────────────────────────
// MOCK TX MANAGER
// ──────────────────────────────────────────────

// MockTxManager implements repository.TxManager over the mock repositories.
// Transactions are serialized and snapshot-based: if fn fails, both repos
// are restored to their pre-transaction state, mirroring a rollback.
type MockTxManager struct {
	mu      sync.Mutex
	cars    *MockCarRepository
	rentals *MockRentalRepository
}

// NewMockTxManager creates a transaction manager over the given mocks.
func NewMockTxManager(cars *MockCarRepository, rentals *MockRentalRepository) *MockTxManager {
	return &MockTxManager{cars: cars, rentals: rentals}
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	carSnap := m.cars.snapshot()
	rentalSnap := m.rentals.snapshot()

	if err := fn(repository.Repositories{Cars: m.cars, Rentals: m.rentals}); err != nil {
		m.cars.restore(carSnap)
		m.rentals.restore(rentalSnap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
// owners maps rental ID to its owning user, standing in for the join the
// real repository performs.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
	owners   map[string]string

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
		owners:   make(map[string]string),
	}
}

// SetRentalOwner records which user owns a rental, for ListByUserID.
func (m *MockPaymentRepository) SetRentalOwner(rentalID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[rentalID] = userID
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.SessionID == sessionID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// UpdateStatus mirrors the database compare-and-swap: the status check and
// the write happen under one lock.
func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	if payment.Status != from {
		return repository.ErrConflict
	}
	payment.Status = to
	return nil
}

func (m *MockPaymentRepository) ListByUserID(ctx context.Context, userID string) ([]repository.PaymentWithRental, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []repository.PaymentWithRental
	for _, p := range m.payments {
		if ownerID, ok := m.owners[p.RentalID]; ok && ownerID == userID {
			result = append(result, repository.PaymentWithRental{Payment: *p, RentalID: p.RentalID})
		}
	}
	return result, nil
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// GetStatus returns the stored status of a payment for assertions.
func (m *MockPaymentRepository) GetStatus(id string) domain.PaymentStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p.Status
	}
	return ""
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

// ──────────────────────────────────────────────
// MOCK CHECKOUT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock implementation of service.CheckoutGateway.
type MockGateway struct {
	mu sync.Mutex

	// Counters for verification
	OpenSessionCallCount int32

	// Error injection
	OpenSessionError error

	// Records of opened sessions
	OpenedAmounts []int64
}

// NewMockGateway creates a new mock checkout gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) OpenSession(ctx context.Context, amountCents int64, description string) (string, string, error) {
	n := atomic.AddInt32(&m.OpenSessionCallCount, 1)
	if m.OpenSessionError != nil {
		return "", "", m.OpenSessionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OpenedAmounts = append(m.OpenedAmounts, amountCents)
	sessionID := fmt.Sprintf("sess_%d", n)
	return sessionID, "https://pay.example.com/" + sessionID, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of the job lock store.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireJobLock(ctx context.Context, jobName string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceAcquireFailure {
		return false, nil
	}
	if expiry, exists := m.locks[jobName]; exists && time.Now().Before(expiry) {
		return false, nil
	}
	m.locks[jobName] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseJobLock(ctx context.Context, jobName string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, jobName)
	return nil
}

// ──────────────────────────────────────────────
// CAPTURE SENDER
// ──────────────────────────────────────────────

// SentMessage records one delivered notification.
type SentMessage struct {
	To      service.Recipient
	Subject string
	Body    string
}

// CaptureSender is a service.Sender that records every message.
type CaptureSender struct {
	mu       sync.Mutex
	Messages []SentMessage

	// Error injection
	SendError error
}

// NewCaptureSender creates a new capture sender.
func NewCaptureSender() *CaptureSender {
	return &CaptureSender{}
}

func (s *CaptureSender) Send(ctx context.Context, to service.Recipient, subject, body string) error {
	if s.SendError != nil {
		return s.SendError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, SentMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Count returns the number of captured messages.
func (s *CaptureSender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Messages)
}

// Last returns the most recent captured message.
func (s *CaptureSender) Last() SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Messages) == 0 {
		return SentMessage{}
	}
	return s.Messages[len(s.Messages)-1]
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDB      = errors.New("mock: database failure")
	ErrMockGateway = errors.New("mock: gateway unavailable")
)
