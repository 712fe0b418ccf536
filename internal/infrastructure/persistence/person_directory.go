package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/staffpoint/backend/internal/domain/identity"
	"github.com/staffpoint/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SQLPersonDirectory implements identity.PersonDirectory over the read-only
// registry connection. Only SELECTs are issued; the registry schema belongs
// to the personnel system, not to this module.
type SQLPersonDirectory struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLPersonDirectory creates a directory over the registry connection
func NewSQLPersonDirectory(db *sql.DB, logger *zap.Logger) *SQLPersonDirectory {
	return &SQLPersonDirectory{db: db, logger: logger}
}

const personColumns = `employee_number, national_id, first_name, last_name, department, COALESCE(phone, '')`

// FindByEmployeeAndNationalID resolves the exact identity pair
func (d *SQLPersonDirectory) FindByEmployeeAndNationalID(ctx context.Context, employeeNumber int, nationalID int64) (*identity.Person, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM personnel WHERE employee_number = $1 AND national_id = $2`,
		employeeNumber, nationalID)
	return d.scanPerson(row)
}

// FindByNationalID resolves a person by national ID alone
func (d *SQLPersonDirectory) FindByNationalID(ctx context.Context, nationalID int64) (*identity.Person, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM personnel WHERE national_id = $1`,
		nationalID)
	return d.scanPerson(row)
}

func (d *SQLPersonDirectory) scanPerson(row *sql.Row) (*identity.Person, error) {
	var person identity.Person
	err := row.Scan(
		&person.EmployeeNumber,
		&person.NationalID,
		&person.FirstName,
		&person.LastName,
		&person.Department,
		&person.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		d.logger.Error("Registry lookup failed", zap.Error(err))
		return nil, shared.ErrUnavailable
	}
	return &person, nil
}
