package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"inride/internal/config"
	"inride/internal/domain"
	"inride/internal/repository"
)

// Identity is a resolved login.
type Identity struct {
	ID   string
	Name string
	Role domain.Role
}

// AuthService resolves logins. An identifier may be an email, phone number,
// or name; cross-partition uniqueness guarantees it matches at most one
// account.
type AuthService struct {
	customers  repository.CustomerRepository
	drivers    repository.DriverRepository
	admins     repository.AdminRepository
	superAdmin config.SuperAdminConfig
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	customers repository.CustomerRepository,
	drivers repository.DriverRepository,
	admins repository.AdminRepository,
	superAdmin config.SuperAdminConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		customers:  customers,
		drivers:    drivers,
		admins:     admins,
		superAdmin: superAdmin,
		logger:     logger,
	}
}

// Login verifies the credentials and returns the matching identity.
// Every failure path returns ErrAuth so callers cannot probe which
// identifiers exist.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (Identity, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return Identity{}, ErrAuth
	}

	if strings.EqualFold(identifier, s.superAdmin.Email) || strings.EqualFold(identifier, superAdminName) {
		if subtle.ConstantTimeCompare([]byte(password), []byte(s.superAdmin.Password)) != 1 {
			return Identity{}, ErrAuth
		}
		return Identity{ID: SuperAdminID, Name: superAdminName, Role: domain.RoleAdmin}, nil
	}

	if admin, err := s.admins.FindByIdentifier(ctx, identifier); err != nil {
		return Identity{}, err
	} else if admin != nil {
		if !passwordMatches(admin.PasswordHash, password) {
			return Identity{}, ErrAuth
		}
		return Identity{ID: admin.ID, Name: admin.Name, Role: domain.RoleAdmin}, nil
	}

	if driver, err := s.drivers.FindByIdentifier(ctx, identifier); err != nil {
		return Identity{}, err
	} else if driver != nil {
		if !passwordMatches(driver.PasswordHash, password) {
			return Identity{}, ErrAuth
		}
		return Identity{ID: driver.ID, Name: driver.Name, Role: domain.RoleDriver}, nil
	}

	if customer, err := s.customers.FindByIdentifier(ctx, identifier); err != nil {
		return Identity{}, err
	} else if customer != nil {
		if !passwordMatches(customer.PasswordHash, password) {
			return Identity{}, ErrAuth
		}
		return Identity{ID: customer.ID, Name: customer.Name, Role: domain.RoleCustomer}, nil
	}

	return Identity{}, ErrAuth
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
