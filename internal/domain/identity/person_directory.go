package identity

import "context"

// PersonDirectory is the read-only lookup over the external master registry.
// It is intentionally separate from AccountRepository so the registry side
// can never be mutated by this module.
//
// Both lookups return shared.ErrNotFound when the registry has no match;
// infrastructure failures are wrapped as shared.ErrUnavailable.
type PersonDirectory interface {
	// FindByEmployeeAndNationalID resolves the exact pair used by enrollment
	// and token issuance.
	FindByEmployeeAndNationalID(ctx context.Context, employeeNumber int, nationalID int64) (*Person, error)
	FindByNationalID(ctx context.Context, nationalID int64) (*Person, error)
}
