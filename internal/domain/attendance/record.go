package attendance

import (
	"strings"
	"time"

	"github.com/staffpoint/backend/internal/domain/shared"
)

// Status represents the lifecycle state of an attendance record
type Status string

const (
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
)

const maxNoteLength = 500

// Domain errors for attendance transitions
var (
	ErrAlreadyCheckedIn   = shared.NewDomainError("ALREADY_CHECKED_IN", "Employee already has an open check-in")
	ErrNoOpenCheckIn      = shared.NewDomainError("NO_OPEN_CHECK_IN", "No open check-in found to check out")
	ErrInvalidCoordinates = shared.NewDomainError("INVALID_COORDINATES", "Latitude must be in [-90, 90] and longitude in [-180, 180]")
	ErrAlreadyCheckedOut  = shared.NewDomainError("ALREADY_CHECKED_OUT", "Attendance record is already checked out")
)

// Record represents a single presence interval for an employee.
// It is the aggregate root for attendance operations: created open
// (CHECKED_IN) and closed exactly once (CHECKED_OUT).
type Record struct {
	shared.BaseAggregateRoot
	EmployeeNumber    int
	CheckInTime       time.Time
	CheckInLatitude   float64
	CheckInLongitude  float64
	CheckInIP         string
	CheckInNote       string
	CheckOutTime      *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutIP        string
	CheckOutNote      string
	Status            Status
}

// NewRecord opens a new attendance record in CHECKED_IN state
func NewRecord(employeeNumber int, at time.Time, latitude, longitude float64, ip, note string) (*Record, error) {
	if employeeNumber <= 0 {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE_NUMBER", "Employee number must be positive")
	}
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLength {
		return nil, shared.NewDomainError("INVALID_NOTE", "Location note cannot exceed 500 characters")
	}

	record := &Record{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeNumber:    employeeNumber,
		CheckInTime:       at,
		CheckInLatitude:   latitude,
		CheckInLongitude:  longitude,
		CheckInIP:         ip,
		CheckInNote:       note,
		Status:            StatusCheckedIn,
	}

	record.AddDomainEvent(NewRecordCheckedInEvent(record))

	return record, nil
}

// Close transitions the record to CHECKED_OUT. It is a one-way transition;
// closing an already closed record fails.
func (r *Record) Close(at time.Time, latitude, longitude float64, ip, note string) error {
	if r.Status == StatusCheckedOut {
		return ErrAlreadyCheckedOut
	}
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return err
	}
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLength {
		return shared.NewDomainError("INVALID_NOTE", "Location note cannot exceed 500 characters")
	}

	r.CheckOutTime = &at
	r.CheckOutLatitude = &latitude
	r.CheckOutLongitude = &longitude
	r.CheckOutIP = ip
	r.CheckOutNote = note
	r.Status = StatusCheckedOut
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewRecordCheckedOutEvent(r))

	return nil
}

// Reopen rolls back a close whose paired token update did not commit.
// It restores the open state so the punch can be retried, and drops the
// pending check-out event.
func (r *Record) Reopen() {
	r.CheckOutTime = nil
	r.CheckOutLatitude = nil
	r.CheckOutLongitude = nil
	r.CheckOutIP = ""
	r.CheckOutNote = ""
	r.Status = StatusCheckedIn
	r.Touch()
	r.IncrementVersion()
	r.ClearDomainEvents()
}

// IsOpen returns true while the record awaits its matching check-out
func (r *Record) IsOpen() bool {
	return r.Status == StatusCheckedIn
}

// Duration returns the time between check-in and check-out, or zero while open
func (r *Record) Duration() time.Duration {
	if r.CheckOutTime == nil {
		return 0
	}
	return r.CheckOutTime.Sub(r.CheckInTime)
}

// ValidateCoordinates applies the latitude/longitude bounds shared by the
// check-in and check-out paths.
func ValidateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return ErrInvalidCoordinates
	}
	if longitude < -180 || longitude > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
