package passes

import (
	"context"
	"time"
)

// TokenRepository is the storage contract for QR tokens.
//
// The store guarantees at most one not-fully-consumed token per employee and
// calendar day; Create surfaces shared.ErrAlreadyExists when a concurrent
// issuance won the race, and the caller falls back to the surviving row.
// The consume operations must be atomic per token (single-statement flag set).
type TokenRepository interface {
	Create(ctx context.Context, token *QRToken) error
	FindByToken(ctx context.Context, token string) (*QRToken, error)
	// FindCurrentByEmployee returns the employee's not-fully-consumed token
	// issued on the calendar day of `day`, or shared.ErrNotFound.
	FindCurrentByEmployee(ctx context.Context, employeeNumber int, day time.Time) (*QRToken, error)
	MarkUsedForCheckIn(ctx context.Context, token string) error
	MarkUsedForCheckOut(ctx context.Context, token string) error
}
