package identity

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository is the storage contract for locally-owned accounts.
//
// Create must be guarded by a unique constraint on national ID so concurrent
// enrollment completions cannot create two accounts for one person; a
// violation is surfaced as ErrAlreadyRegistered.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByNationalID(ctx context.Context, nationalID int64) (*Account, error)
	ExistsByNationalID(ctx context.Context, nationalID int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}
