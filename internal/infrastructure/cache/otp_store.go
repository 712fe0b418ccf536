package cache

import (
	"context"
	"time"
)

// Challenge is a pending SMS verification code
type Challenge struct {
	Code     string
	IssuedAt time.Time
}

// OTPStore keeps pending enrollment challenges keyed by national ID.
// Put overwrites any earlier challenge for the same key, so only the most
// recently sent code can complete an enrollment. Get must not return stale
// entries: a challenge older than the configured TTL is treated as absent.
type OTPStore interface {
	Put(ctx context.Context, nationalID int64, challenge Challenge) error
	// Get returns the pending challenge, or (nil, nil) when none exists
	// or the stored one has expired.
	Get(ctx context.Context, nationalID int64) (*Challenge, error)
	Remove(ctx context.Context, nationalID int64) error
}
