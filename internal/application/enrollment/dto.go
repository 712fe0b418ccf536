package enrollment

import (
	"time"

	"github.com/google/uuid"
)

// InitiateInput contains the input for starting an enrollment
type InitiateInput struct {
	NationalID     int64
	EmployeeNumber int
}

// InitiateResult contains the outcome of a started enrollment
type InitiateResult struct {
	MaskedPhone string
	ExpiresAt   time.Time
}

// CompleteInput contains the input for finishing an enrollment
type CompleteInput struct {
	NationalID     int64
	EmployeeNumber int
	Code           string
	Password       string
}

// AccountResult contains the created account's public fields
type AccountResult struct {
	ID             uuid.UUID
	NationalID     int64
	EmployeeNumber int
	Role           string
}

// LoginInput contains the input for account login
type LoginInput struct {
	NationalID int64
	Password   string
}

// LoginResult contains the issued token pair and account info
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	Account               AccountResult
}

// RefreshInput contains the input for refreshing a token pair
type RefreshInput struct {
	RefreshToken string
}
