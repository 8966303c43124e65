package tests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"inride/internal/domain"
	"inride/internal/payments"
	redisstore "inride/internal/redis"
	"inride/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CUSTOMER REPOSITORY
// ──────────────────────────────────────────────

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	// Counters for verification
	CreateCallCount        int32
	AdjustBalanceCallCount int32

	// Error injection
	CreateError        error
	AdjustBalanceError error
}

// NewMockCustomerRepository creates a new mock customer repository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{customers: make(map[string]*domain.Customer)}
}

// AddCustomer adds a customer to the mock repository.
func (m *MockCustomerRepository) AddCustomer(customer *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *customer
	m.customers[customer.ID] = &c
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *customer
	return &c, nil
}

func (m *MockCustomerRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, customer := range m.customers {
		if strings.EqualFold(customer.Email, identifier) ||
			strings.EqualFold(customer.Name, identifier) ||
			customer.Phone == identifier {
			c := *customer
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockCustomerRepository) GetAll(ctx context.Context) ([]*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Customer, 0, len(m.customers))
	for _, customer := range m.customers {
		c := *customer
		result = append(result, &c)
	}
	return result, nil
}

func (m *MockCustomerRepository) AdjustBalance(ctx context.Context, id string, delta float64) error {
	atomic.AddInt32(&m.AdjustBalanceCallCount, 1)
	if m.AdjustBalanceError != nil {
		return m.AdjustBalanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if customer.Balance+delta < 0 {
		return repository.ErrInsufficientFunds
	}
	customer.Balance += delta
	return nil
}

// Balance returns the customer's balance for test assertions.
func (m *MockCustomerRepository) Balance(id string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.customers[id].Balance
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	CreateCallCount        int32
	UpdateStatusCallCount  int32
	AdjustBalanceCallCount int32
	DeleteCallCount        int32

	// Error injection
	CreateError        error
	UpdateStatusError  error
	AdjustBalanceError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{drivers: make(map[string]*domain.Driver)}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d := *driver
	m.drivers[driver.ID] = &d
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d := *driver
	return &d, nil
}

func (m *MockDriverRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, driver := range m.drivers {
		if strings.EqualFold(driver.Email, identifier) ||
			strings.EqualFold(driver.Name, identifier) ||
			driver.Phone == identifier {
			d := *driver
			return &d, nil
		}
	}
	return nil, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, driver := range m.drivers {
		d := *driver
		result = append(result, &d)
	}
	return result, nil
}

func (m *MockDriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus, note string) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Status = status
	driver.VerificationNote = note
	return nil
}

func (m *MockDriverRepository) UpdateRating(ctx context.Context, id string, rating float64, totalRatings int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Rating = rating
	driver.TotalRatings = totalRatings
	return nil
}

func (m *MockDriverRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Location = &domain.Location{Lat: lat, Lng: lng}
	return nil
}

func (m *MockDriverRepository) AdjustBalance(ctx context.Context, id string, delta float64) error {
	atomic.AddInt32(&m.AdjustBalanceCallCount, 1)
	if m.AdjustBalanceError != nil {
		return m.AdjustBalanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	// Driver wallets have no floor; commission debt goes negative.
	driver.Balance += delta
	return nil
}

func (m *MockDriverRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.drivers, id)
	return nil
}

// Driver returns the stored driver for test assertions.
func (m *MockDriverRepository) Driver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK ADMIN REPOSITORY
// ──────────────────────────────────────────────

// MockAdminRepository is a mock implementation of AdminRepository.
type MockAdminRepository struct {
	mu     sync.RWMutex
	admins map[string]*domain.Admin

	CreateCallCount int32
	CreateError     error
}

// NewMockAdminRepository creates a new mock admin repository.
func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{admins: make(map[string]*domain.Admin)}
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := *admin
	m.admins[admin.ID] = &a
	return nil
}

func (m *MockAdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	admin, ok := m.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := *admin
	return &a, nil
}

func (m *MockAdminRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, admin := range m.admins {
		if strings.EqualFold(admin.Email, identifier) ||
			strings.EqualFold(admin.Name, identifier) ||
			admin.Phone == identifier {
			a := *admin
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MockAdminRepository) GetAll(ctx context.Context) ([]*domain.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Admin, 0, len(m.admins))
	for _, admin := range m.admins {
		a := *admin
		result = append(result, &a)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	CreateCallCount int32
	UpdateCallCount int32

	CreateError error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{bookings: make(map[string]*domain.Booking)}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.Offers = append([]domain.Offer(nil), b.Offers...)
	return &c
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyBooking(booking), nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, booking := range m.bookings {
		result = append(result, copyBooking(booking))
	}
	return result, nil
}

func (m *MockBookingRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, booking := range m.bookings {
		if booking.CustomerID == customerID {
			result = append(result, copyBooking(booking))
		}
	}
	return result, nil
}

func (m *MockBookingRepository) GetSearching(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, booking := range m.bookings {
		if booking.Status == domain.BookingStatusSearching {
			result = append(result, copyBooking(booking))
		}
	}
	return result, nil
}

func (m *MockBookingRepository) GetActiveByCustomerID(ctx context.Context, customerID string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, booking := range m.bookings {
		if booking.CustomerID == customerID && booking.Status.Active() {
			return copyBooking(booking), nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, booking := range m.bookings {
		if booking.DriverID == driverID && booking.Status.Active() {
			return copyBooking(booking), nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	m.bookings[booking.ID] = copyBooking(booking)
	return nil
}

// Booking returns the stored booking for test assertions.
func (m *MockBookingRepository) Booking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// ──────────────────────────────────────────────
// MOCK PLATFORM REPOSITORY
// ──────────────────────────────────────────────

// MockPlatformRepository is a mock implementation of PlatformRepository.
type MockPlatformRepository struct {
	mu      sync.RWMutex
	balance float64

	CreditCallCount int32
	CreditError     error
}

// NewMockPlatformRepository creates a mock platform account with the
// given opening balance.
func NewMockPlatformRepository(balance float64) *MockPlatformRepository {
	return &MockPlatformRepository{balance: balance}
}

func (m *MockPlatformRepository) GetBalance(ctx context.Context) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balance, nil
}

func (m *MockPlatformRepository) Credit(ctx context.Context, delta float64) error {
	atomic.AddInt32(&m.CreditCallCount, 1)
	if m.CreditError != nil {
		return m.CreditError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance += delta
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor runs the callback against the shared mocks under a
// single mutex, serializing transactions the way the database would.
type MockTransactor struct {
	mu    sync.Mutex
	Repos repository.TxRepos

	WithinTxCallCount int32
	WithinTxError     error
}

// NewMockTransactor creates a transactor over the given mock repositories.
func NewMockTransactor(repos repository.TxRepos) *MockTransactor {
	return &MockTransactor{Repos: repos}
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(repository.TxRepos) error) error {
	atomic.AddInt32(&m.WithinTxCallCount, 1)
	if m.WithinTxError != nil {
		return m.WithinTxError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.Repos)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of the booking lock store.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireError error
}

// NewMockLockStore creates a new MockLockStore.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[bookingID] {
		return false, nil
	}
	m.locks[bookingID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseBookingLock(ctx context.Context, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, bookingID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is an in-memory implementation of the live driver
// location index.
type MockLocationStore struct {
	mu        sync.RWMutex
	positions map[string]domain.Location
}

// NewMockLocationStore creates a new MockLocationStore.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{positions: make(map[string]domain.Location)}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[driverID] = domain.Location{Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) GetLocation(ctx context.Context, driverID string) (float64, float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.positions[driverID]
	if !ok {
		return 0, 0, false, nil
	}
	return loc.Lat, loc.Lng, true, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, driverID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK OTP STORE
// ──────────────────────────────────────────────

// MockOTPStore is an in-memory implementation of the verification code
// store. TTLs are ignored; tests drive expiry by deleting.
type MockOTPStore struct {
	mu    sync.Mutex
	codes map[string]string
}

// NewMockOTPStore creates a new MockOTPStore.
func NewMockOTPStore() *MockOTPStore {
	return &MockOTPStore{codes: make(map[string]string)}
}

func (m *MockOTPStore) SaveCode(ctx context.Context, target, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[target] = code
	return nil
}

func (m *MockOTPStore) GetCode(ctx context.Context, target string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[target]
	if !ok {
		return "", redisstore.ErrCodeNotFound
	}
	return code, nil
}

func (m *MockOTPStore) DeleteCode(ctx context.Context, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, target)
	return nil
}

// Code returns the stored code for test assertions.
func (m *MockOTPStore) Code(target string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[target]
}

// ──────────────────────────────────────────────
// MOCK PSP
// ──────────────────────────────────────────────

// MockPSP is an in-memory payment provider.
type MockPSP struct {
	mu       sync.Mutex
	nextID   int
	holds    map[string]float64
	captured map[string]float64

	HoldError    error
	CaptureError error

	HoldCallCount    int32
	CaptureCallCount int32
	CancelCallCount  int32
}

// NewMockPSP creates a new MockPSP.
func NewMockPSP() *MockPSP {
	return &MockPSP{
		holds:    make(map[string]float64),
		captured: make(map[string]float64),
	}
}

// Ensure the interface is satisfied.
var _ payments.PSP = (*MockPSP)(nil)

func (m *MockPSP) Hold(customerID string, amount float64) (string, error) {
	atomic.AddInt32(&m.HoldCallCount, 1)
	if m.HoldError != nil {
		return "", m.HoldError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("hold-%04d", m.nextID)
	m.holds[id] = amount
	return id, nil
}

func (m *MockPSP) Capture(holdID string) error {
	atomic.AddInt32(&m.CaptureCallCount, 1)
	if m.CaptureError != nil {
		return m.CaptureError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	amount, ok := m.holds[holdID]
	if !ok {
		return errors.New("unknown hold")
	}
	delete(m.holds, holdID)
	m.captured[holdID] = amount
	return nil
}

func (m *MockPSP) Cancel(holdID string) error {
	atomic.AddInt32(&m.CancelCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holds, holdID)
	return nil
}

// OpenHolds returns the number of uncaptured holds.
func (m *MockPSP) OpenHolds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.holds)
}
