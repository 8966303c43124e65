package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"inride/internal/config"
	"inride/internal/domain"
	"inride/internal/oracle"
	redisstore "inride/internal/redis"
	"inride/internal/repository"
)

const (
	initialCustomerBalance = 1000.00
	initialDriverBalance   = 200.00
	initialDriverRating    = 4.5

	// SuperAdminID is the fixed ID of the built-in platform owner. The
	// super admin lives in configuration, not in the admins table.
	SuperAdminID = "admin1"

	superAdminName = "Super Admin"
)

// RegisterCustomerInput carries a customer signup.
type RegisterCustomerInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// RegisterDriverInput carries a driver signup.
type RegisterDriverInput struct {
	Name          string
	Email         string
	Phone         string
	Password      string
	LicenseNumber string
	VehicleInfo   string
	Documents     map[string]string
}

// RegisterAdminInput carries an admin signup.
type RegisterAdminInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// ProfileService manages customer, driver, and admin accounts.
//
// Email, phone, and name are each unique across all three partitions plus
// the configured super admin, so a login identifier always resolves to at
// most one account.
type ProfileService struct {
	customers  repository.CustomerRepository
	drivers    repository.DriverRepository
	admins     repository.AdminRepository
	bookings   repository.BookingRepository
	locations  redisstore.LocationStoreInterface
	verifier   oracle.Oracle
	notifier   Notifier
	superAdmin config.SuperAdminConfig
	logger     *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	customers repository.CustomerRepository,
	drivers repository.DriverRepository,
	admins repository.AdminRepository,
	bookings repository.BookingRepository,
	locations redisstore.LocationStoreInterface,
	verifier oracle.Oracle,
	notifier Notifier,
	superAdmin config.SuperAdminConfig,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		customers:  customers,
		drivers:    drivers,
		admins:     admins,
		bookings:   bookings,
		locations:  locations,
		verifier:   verifier,
		notifier:   notifier,
		superAdmin: superAdmin,
		logger:     logger,
	}
}

// identifierTaken reports whether any account across all partitions,
// including the super admin, already answers to the identifier.
func (s *ProfileService) identifierTaken(ctx context.Context, identifier string) (bool, error) {
	if strings.EqualFold(identifier, s.superAdmin.Email) || strings.EqualFold(identifier, superAdminName) {
		return true, nil
	}

	if c, err := s.customers.FindByIdentifier(ctx, identifier); err != nil {
		return false, err
	} else if c != nil {
		return true, nil
	}

	if d, err := s.drivers.FindByIdentifier(ctx, identifier); err != nil {
		return false, err
	} else if d != nil {
		return true, nil
	}

	if a, err := s.admins.FindByIdentifier(ctx, identifier); err != nil {
		return false, err
	} else if a != nil {
		return true, nil
	}

	return false, nil
}

func (s *ProfileService) checkUniqueness(ctx context.Context, name, email, phone string) error {
	if taken, err := s.identifierTaken(ctx, email); err != nil {
		return err
	} else if taken {
		return ErrEmailTaken
	}
	if taken, err := s.identifierTaken(ctx, phone); err != nil {
		return err
	} else if taken {
		return ErrPhoneTaken
	}
	if taken, err := s.identifierTaken(ctx, name); err != nil {
		return err
	} else if taken {
		return ErrNameTaken
	}
	return nil
}

func validateSignup(name, email, phone, password string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if len(strings.TrimSpace(phone)) < 7 {
		return ErrInvalidPhone
	}
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// RegisterCustomer creates a customer account with the signup wallet credit.
func (s *ProfileService) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*domain.Customer, error) {
	if err := validateSignup(in.Name, in.Email, in.Phone, in.Password); err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, in.Name, in.Email, in.Phone); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Balance:      initialCustomerBalance,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer registered", zap.String("customer_id", customer.ID))

	return customer, nil
}

// RegisterDriver creates a driver account in PENDING and submits the
// driver's documents for automated scoring. A favorable score promotes the
// driver to MODERATION for admin review; approval itself always stays with
// an admin.
func (s *ProfileService) RegisterDriver(ctx context.Context, in RegisterDriverInput) (*domain.Driver, error) {
	if err := validateSignup(in.Name, in.Email, in.Phone, in.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.LicenseNumber) == "" || strings.TrimSpace(in.VehicleInfo) == "" {
		return nil, ErrInvalidName
	}
	if err := s.checkUniqueness(ctx, in.Name, in.Email, in.Phone); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	driver := &domain.Driver{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:         strings.TrimSpace(in.Phone),
		PasswordHash:  hash,
		LicenseNumber: strings.TrimSpace(in.LicenseNumber),
		VehicleInfo:   strings.TrimSpace(in.VehicleInfo),
		Status:        domain.DriverStatusPending,
		Documents:     in.Documents,
		Rating:        initialDriverRating,
		Balance:       initialDriverBalance,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.drivers.Create(ctx, driver); err != nil {
		return nil, err
	}

	score, err := s.verifier.ScoreDriverDocuments(ctx, driver.Name, driver.LicenseNumber, driver.VehicleInfo, driver.Documents)
	if err != nil {
		// The resilient oracle answers from its fallback instead of
		// erroring; a direct client can still fail. Registration
		// succeeded, so leave the driver PENDING for manual review.
		s.logger.Warn("driver document scoring failed", zap.String("driver_id", driver.ID), zap.Error(err))
		return driver, nil
	}

	note := fmt.Sprintf("%s (automated score %d/10)", score.Summary, score.Rating)
	status := domain.DriverStatusPending
	if score.Recommendation == oracle.RecommendationApprove {
		status = domain.DriverStatusModeration
	}

	if err := s.drivers.UpdateStatus(ctx, driver.ID, status, note); err != nil {
		// The driver row is already committed; failing here would make
		// a retry collide with the uniqueness checks. Leave the driver
		// PENDING for manual review.
		s.logger.Warn("driver status update failed", zap.String("driver_id", driver.ID), zap.Error(err))
		return driver, nil
	}
	driver.Status = status
	driver.VerificationNote = note

	s.logger.Info("driver registered",
		zap.String("driver_id", driver.ID),
		zap.String("status", string(driver.Status)),
		zap.String("recommendation", string(score.Recommendation)),
	)

	return driver, nil
}

// RegisterAdmin creates an admin account.
func (s *ProfileService) RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*domain.Admin, error) {
	if err := validateSignup(in.Name, in.Email, in.Phone, in.Password); err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, in.Name, in.Email, in.Phone); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("admin registered", zap.String("admin_id", admin.ID))

	return admin, nil
}

// GetCustomer retrieves a customer by ID.
func (s *ProfileService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	return s.customers.GetByID(ctx, id)
}

// GetDriver retrieves a driver by ID.
func (s *ProfileService) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	return s.drivers.GetByID(ctx, id)
}

// ListCustomers retrieves all customers.
func (s *ProfileService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return s.customers.GetAll(ctx)
}

// ListDrivers retrieves all drivers.
func (s *ProfileService) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.drivers.GetAll(ctx)
}

// ListAdmins retrieves all admins.
func (s *ProfileService) ListAdmins(ctx context.Context) ([]*domain.Admin, error) {
	return s.admins.GetAll(ctx)
}

// UpdateDriverStatus sets a driver's verification status. Admin operation.
func (s *ProfileService) UpdateDriverStatus(ctx context.Context, driverID string, status domain.DriverStatus, note string) error {
	if driverID == "" {
		return ErrInvalidID
	}
	switch status {
	case domain.DriverStatusPending, domain.DriverStatusModeration, domain.DriverStatusApproved, domain.DriverStatusRejected:
	default:
		return ErrInvalidDriverStatus
	}

	if err := s.drivers.UpdateStatus(ctx, driverID, status, strings.TrimSpace(note)); err != nil {
		return err
	}

	s.notifier.Notify(ctx, Notification{
		RecipientID: driverID,
		Role:        domain.RoleDriver,
		Type:        NotificationDriverVerdict,
		Message:     fmt.Sprintf("Your verification status is now %s.", status),
	})

	return nil
}

// DeleteDriver removes a driver. Rejected while the driver has an active
// booking; the ride must finish or be cancelled first.
func (s *ProfileService) DeleteDriver(ctx context.Context, driverID string) error {
	if driverID == "" {
		return ErrInvalidID
	}

	active, err := s.bookings.GetActiveByDriverID(ctx, driverID)
	if err != nil {
		return err
	}
	if active != nil {
		return ErrDriverHasActiveBooking
	}

	if err := s.drivers.Delete(ctx, driverID); err != nil {
		return err
	}

	if err := s.locations.RemoveLocation(ctx, driverID); err != nil {
		s.logger.Warn("remove driver location", zap.String("driver_id", driverID), zap.Error(err))
	}

	return nil
}

// UpdateDriverLocation records the driver's position in both the live
// Redis index and the durable row.
func (s *ProfileService) UpdateDriverLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if driverID == "" {
		return ErrInvalidID
	}
	if !validCoords(domain.Location{Lat: lat, Lng: lng}) {
		return ErrInvalidCoordinates
	}

	if err := s.drivers.UpdateLocation(ctx, driverID, lat, lng); err != nil {
		return err
	}

	return s.locations.UpdateLocation(ctx, driverID, lat, lng)
}

// GetDriverLocation returns the driver's live position, falling back to the
// last persisted one when the live index has nothing.
func (s *ProfileService) GetDriverLocation(ctx context.Context, driverID string) (domain.Location, error) {
	if driverID == "" {
		return domain.Location{}, ErrInvalidID
	}

	lat, lng, ok, err := s.locations.GetLocation(ctx, driverID)
	if err == nil && ok {
		return domain.Location{Lat: lat, Lng: lng}, nil
	}
	if err != nil {
		s.logger.Warn("live location lookup", zap.String("driver_id", driverID), zap.Error(err))
	}

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return domain.Location{}, err
	}
	if driver.Location == nil {
		return domain.Location{}, repository.ErrNotFound
	}

	return *driver.Location, nil
}
