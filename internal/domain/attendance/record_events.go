package attendance

import (
	"time"

	"github.com/staffpoint/backend/internal/domain/shared"
)

// Event types for the attendance aggregate
const (
	EventTypeRecordCheckedIn  = "attendance.record.checked_in"
	EventTypeRecordCheckedOut = "attendance.record.checked_out"
)

const aggregateTypeRecord = "AttendanceRecord"

// RecordCheckedInEvent is raised when a new open record is created
type RecordCheckedInEvent struct {
	shared.BaseDomainEvent
	EmployeeNumber int       `json:"employee_number"`
	CheckInTime    time.Time `json:"check_in_time"`
	CheckInIP      string    `json:"check_in_ip"`
}

// NewRecordCheckedInEvent creates a checked-in event from a record
func NewRecordCheckedInEvent(record *Record) *RecordCheckedInEvent {
	return &RecordCheckedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordCheckedIn, aggregateTypeRecord, record.ID),
		EmployeeNumber:  record.EmployeeNumber,
		CheckInTime:     record.CheckInTime,
		CheckInIP:       record.CheckInIP,
	}
}

// RecordCheckedOutEvent is raised when an open record is closed
type RecordCheckedOutEvent struct {
	shared.BaseDomainEvent
	EmployeeNumber int           `json:"employee_number"`
	CheckOutTime   time.Time     `json:"check_out_time"`
	Duration       time.Duration `json:"duration"`
}

// NewRecordCheckedOutEvent creates a checked-out event from a record
func NewRecordCheckedOutEvent(record *Record) *RecordCheckedOutEvent {
	var checkedOut time.Time
	if record.CheckOutTime != nil {
		checkedOut = *record.CheckOutTime
	}
	return &RecordCheckedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordCheckedOut, aggregateTypeRecord, record.ID),
		EmployeeNumber:  record.EmployeeNumber,
		CheckOutTime:    checkedOut,
		Duration:        record.Duration(),
	}
}
