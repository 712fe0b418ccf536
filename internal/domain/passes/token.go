package passes

import (
	"time"

	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/domain/shared"
)

// TokenTTL is the fixed validity window of a QR token
const TokenTTL = 24 * time.Hour

// Domain errors for the token lifecycle
var (
	// ErrInvalidToken covers unknown, expired and fully consumed tokens alike;
	// callers are not told which, only that the token cannot be presented.
	ErrInvalidToken = shared.NewDomainError("INVALID_TOKEN", "Invalid or expired QR token")
	// ErrTokenConsumed is the action-specific replay rejection.
	ErrTokenConsumed = shared.NewDomainError("TOKEN_CONSUMED", "This QR token has already been used for this action today")
)

// QRToken is the credential an employee presents at the attendance scanner.
// One token carries two independent consumption flags so a single physical
// code serves as both the day's entry and exit credential.
type QRToken struct {
	shared.BaseAggregateRoot
	Token           string
	EmployeeNumber  int
	NationalID      int64
	FirstName       string
	LastName        string
	IssuedIP        string
	ExpiresAt       time.Time
	UsedForCheckIn  bool
	UsedForCheckOut bool
}

// NewQRToken issues a fresh token valid for TokenTTL from now
func NewQRToken(employeeNumber int, nationalID int64, firstName, lastName, ip string, now time.Time) *QRToken {
	token := &QRToken{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Token:             uuid.NewString(),
		EmployeeNumber:    employeeNumber,
		NationalID:        nationalID,
		FirstName:         firstName,
		LastName:          lastName,
		IssuedIP:          ip,
		ExpiresAt:         now.Add(TokenTTL),
	}
	token.CreatedAt = now
	token.UpdatedAt = now
	return token
}

// IsPresentable reports whether the token may still be shown to the scanner:
// not expired and not consumed for both actions.
func (t *QRToken) IsPresentable(now time.Time) bool {
	if !now.Before(t.ExpiresAt) {
		return false
	}
	return !(t.UsedForCheckIn && t.UsedForCheckOut)
}

// IssuedSameDay reports whether the token was created on the same calendar
// day as the given instant, in that instant's location.
func (t *QRToken) IssuedSameDay(now time.Time) bool {
	y1, m1, d1 := t.CreatedAt.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FullyConsumed reports whether both action flags are set
func (t *QRToken) FullyConsumed() bool {
	return t.UsedForCheckIn && t.UsedForCheckOut
}
