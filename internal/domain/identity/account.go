package identity

import (
	"time"

	"github.com/staffpoint/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the authorization level of a local account
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Password cost for bcrypt
const bcryptCost = 12

// Domain errors for enrollment and authentication
var (
	ErrPersonNotFound     = shared.NewDomainError("PERSON_NOT_FOUND", "Person not found in the master registry")
	ErrAlreadyRegistered  = shared.NewDomainError("ALREADY_REGISTERED", "An account already exists for this national ID")
	ErrPhoneUnavailable   = shared.NewDomainError("PHONE_UNAVAILABLE", "No mobile phone number on file for this person")
	ErrInvalidCode        = shared.NewDomainError("INVALID_CODE", "Invalid or expired verification code")
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid national ID or password")
)

// Account is a locally-owned credential bound to a master-registry identity.
// It is created exactly once, at the end of a successful enrollment.
type Account struct {
	shared.BaseAggregateRoot
	NationalID     int64
	EmployeeNumber int
	PasswordHash   string
	Role           Role
}

// NewAccount creates an enrolled account with a hashed password
func NewAccount(nationalID int64, employeeNumber int, password string, role Role) (*Account, error) {
	if nationalID <= 0 {
		return nil, shared.NewDomainError("INVALID_NATIONAL_ID", "National ID must be positive")
	}
	if employeeNumber <= 0 {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE_NUMBER", "Employee number must be positive")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	account := &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		NationalID:        nationalID,
		EmployeeNumber:    employeeNumber,
		PasswordHash:      string(hash),
		Role:              role,
	}

	account.AddDomainEvent(NewAccountEnrolledEvent(account))

	return account, nil
}

// VerifyPassword verifies if the provided password matches
func (a *Account) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// IsAdmin returns true for the bootstrap/administrative role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// SetPassword replaces the account password (admin reset path)
func (a *Account) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	a.PasswordHash = string(hash)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}
