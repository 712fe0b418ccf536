package attendance

import (
	"context"

	"github.com/google/uuid"
)

// RecordFilter represents query filter options for attendance listings
type RecordFilter struct {
	EmployeeNumber int
	Status         Status
	Page           int
	PageSize       int
}

// Offset returns the pagination offset
func (f RecordFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// Limit returns the pagination limit
func (f RecordFilter) Limit() int {
	if f.PageSize < 1 || f.PageSize > 100 {
		return 20
	}
	return f.PageSize
}

// RecordRepository is the storage contract for attendance records.
//
// Create must be guarded by a storage-level uniqueness rule allowing at most
// one CHECKED_IN row per employee number; a violation is surfaced as
// ErrAlreadyCheckedIn so concurrent check-ins cannot both succeed.
type RecordRepository interface {
	Create(ctx context.Context, record *Record) error
	Update(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	// FindOpenByEmployee returns the most recent CHECKED_IN record for the
	// employee, or shared.ErrNotFound when none is open.
	FindOpenByEmployee(ctx context.Context, employeeNumber int) (*Record, error)
	// FindByEmployee lists records for an employee, newest check-in first.
	FindByEmployee(ctx context.Context, employeeNumber int) ([]*Record, error)
	FindAll(ctx context.Context, filter RecordFilter) ([]*Record, int64, error)
}
