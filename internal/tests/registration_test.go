package tests

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"inride/internal/config"
	"inride/internal/domain"
	"inride/internal/oracle"
	"inride/internal/service"
)

// ──────────────────────────────────────────────
// FIXTURE
// ──────────────────────────────────────────────

type profileFixture struct {
	customers *MockCustomerRepository
	drivers   *MockDriverRepository
	admins    *MockAdminRepository
	bookings  *MockBookingRepository
	locations *MockLocationStore
	profiles  *service.ProfileService
	auth      *service.AuthService
}

var testSuperAdmin = config.SuperAdminConfig{
	Email:    "whitehills003@gmail.com",
	Password: "Admin@WhiteHills2025",
}

func newProfileFixture() *profileFixture {
	customers := NewMockCustomerRepository()
	drivers := NewMockDriverRepository()
	admins := NewMockAdminRepository()
	bookings := NewMockBookingRepository()
	locations := NewMockLocationStore()
	logger := zap.NewNop()
	notifier := service.NewLogNotifier(logger)

	profiles := service.NewProfileService(
		customers, drivers, admins, bookings,
		locations, oracle.NewFallback(), notifier, testSuperAdmin, logger,
	)
	auth := service.NewAuthService(customers, drivers, admins, testSuperAdmin, logger)

	return &profileFixture{
		customers: customers,
		drivers:   drivers,
		admins:    admins,
		bookings:  bookings,
		locations: locations,
		profiles:  profiles,
		auth:      auth,
	}
}

func customerInput(name, email, phone string) service.RegisterCustomerInput {
	return service.RegisterCustomerInput{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: "secret-password",
	}
}

func driverInput(name, email, phone string) service.RegisterDriverInput {
	return service.RegisterDriverInput{
		Name:          name,
		Email:         email,
		Phone:         phone,
		Password:      "secret-password",
		LicenseNumber: "DL-12345",
		VehicleInfo:   "Toyota Etios, white",
	}
}

// ──────────────────────────────────────────────
// REGISTRATION
// ──────────────────────────────────────────────

func TestRegisterCustomer_GrantsSignupBalance(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()

	customer, err := f.profiles.RegisterCustomer(context.Background(), customerInput("Alice", "alice@example.com", "+15550001"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if customer.Balance != 1000.00 {
		t.Errorf("expected signup balance 1000.00, got %f", customer.Balance)
	}
	if customer.PasswordHash == "secret-password" {
		t.Error("password stored in plain text")
	}
}

func TestRegisterDriver_StartsPendingWithDefaults(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()

	driver, err := f.profiles.RegisterDriver(context.Background(), driverInput("Ravi", "ravi@example.com", "+15550002"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// The fallback scorer recommends manual review, so the driver
	// stays PENDING with a note.
	if driver.Status != domain.DriverStatusPending {
		t.Errorf("expected PENDING, got %s", driver.Status)
	}
	if driver.Balance != 200.00 {
		t.Errorf("expected signup balance 200.00, got %f", driver.Balance)
	}
	if driver.Rating != 4.5 {
		t.Errorf("expected initial rating 4.5, got %f", driver.Rating)
	}
	if driver.VerificationNote == "" {
		t.Error("expected verification note from document scoring")
	}
}

func TestRegisterDriver_StatusUpdateFailureKeepsAccount(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()
	f.drivers.UpdateStatusError = errors.New("connection reset")

	// The driver row is committed before scoring; a retry would trip
	// the uniqueness checks, so registration must still succeed.
	driver, err := f.profiles.RegisterDriver(context.Background(), driverInput("Ravi", "ravi@example.com", "+15550002"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if driver.Status != domain.DriverStatusPending {
		t.Errorf("expected PENDING, got %s", driver.Status)
	}
	if driver.VerificationNote != "" {
		t.Errorf("expected empty note, got %q", driver.VerificationNote)
	}
	if f.drivers.Driver(driver.ID) == nil {
		t.Error("expected driver account to persist")
	}
}

func TestRegistration_CrossRoleUniqueness(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()
	ctx := context.Background()

	if _, err := f.profiles.RegisterCustomer(ctx, customerInput("Alice", "alice@example.com", "+15550001")); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	// Same email, different role.
	_, err := f.profiles.RegisterDriver(ctx, driverInput("Bob", "ALICE@example.com", "+15550002"))
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	// Same phone, different role.
	_, err = f.profiles.RegisterDriver(ctx, driverInput("Bob", "bob@example.com", "+15550001"))
	if !errors.Is(err, service.ErrPhoneTaken) {
		t.Errorf("expected ErrPhoneTaken, got %v", err)
	}

	// Same name, case-insensitive.
	_, err = f.profiles.RegisterAdmin(ctx, service.RegisterAdminInput{
		Name: "alice", Email: "other@example.com", Phone: "+15550003", Password: "secret-password",
	})
	if !errors.Is(err, service.ErrNameTaken) {
		t.Errorf("expected ErrNameTaken, got %v", err)
	}
}

func TestRegistration_SuperAdminIdentityReserved(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()
	ctx := context.Background()

	_, err := f.profiles.RegisterCustomer(ctx, customerInput("Mallory", "WhiteHills003@gmail.com", "+15550009"))
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken for super admin email, got %v", err)
	}

	_, err = f.profiles.RegisterCustomer(ctx, customerInput("super admin", "mallory@example.com", "+15550009"))
	if !errors.Is(err, service.ErrNameTaken) {
		t.Errorf("expected ErrNameTaken for super admin name, got %v", err)
	}
}

func TestDeleteDriver_BlockedDuringActiveBooking(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()
	ctx := context.Background()

	driver, err := f.profiles.RegisterDriver(ctx, driverInput("Ravi", "ravi@example.com", "+15550002"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	f.bookings.AddBooking(&domain.Booking{
		ID:         "b1",
		CustomerID: "c1",
		DriverID:   driver.ID,
		Status:     domain.BookingStatusInProgress,
	})

	err = f.profiles.DeleteDriver(ctx, driver.ID)
	if !errors.Is(err, service.ErrDriverHasActiveBooking) {
		t.Errorf("expected ErrDriverHasActiveBooking, got %v", err)
	}

	f.bookings.Booking("b1").Status = domain.BookingStatusCompleted
	if err := f.profiles.DeleteDriver(ctx, driver.ID); err != nil {
		t.Errorf("expected delete to succeed after completion, got %v", err)
	}
}

// ──────────────────────────────────────────────
// LOGIN
// ──────────────────────────────────────────────

func TestLogin_ByAnyIdentifier(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()
	ctx := context.Background()

	customer, err := f.profiles.RegisterCustomer(ctx, customerInput("Alice", "alice@example.com", "+15550001"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, identifier := range []string{"alice@example.com", "+15550001", "Alice", "ALICE"} {
		identity, err := f.auth.Login(ctx, identifier, "secret-password")
		if err != nil {
			t.Fatalf("login with %q: %v", identifier, err)
		}
		if identity.ID != customer.ID || identity.Role != domain.RoleCustomer {
			t.Errorf("login with %q: expected customer %s, got %+v", identifier, customer.ID, identity)
		}
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()
	ctx := context.Background()

	if _, err := f.profiles.RegisterCustomer(ctx, customerInput("Alice", "alice@example.com", "+15550001")); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := f.auth.Login(ctx, "alice@example.com", "wrong-password")
	if !errors.Is(err, service.ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}
}

func TestLogin_SuperAdmin(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()

	identity, err := f.auth.Login(context.Background(), testSuperAdmin.Email, testSuperAdmin.Password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.ID != service.SuperAdminID || identity.Role != domain.RoleAdmin {
		t.Errorf("expected super admin identity, got %+v", identity)
	}
}

func TestLogin_UnknownIdentifier(t *testing.T) {
	t.Parallel()

	f := newProfileFixture()

	_, err := f.auth.Login(context.Background(), "nobody@example.com", "whatever-password")
	if !errors.Is(err, service.ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}
}
