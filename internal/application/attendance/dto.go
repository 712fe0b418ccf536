package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/domain/attendance"
)

// Direction indicates which side of the presence interval a punch recorded
type Direction string

const (
	DirectionCheckIn  Direction = "CHECK_IN"
	DirectionCheckOut Direction = "CHECK_OUT"
)

// PunchInput contains the input for a check-in, check-out or auto-directed
// punch. Timestamp is an optional local date-time ("2006-01-02T15:04:05");
// when absent or unparseable the server clock is used.
type PunchInput struct {
	Token     string
	Latitude  float64
	Longitude float64
	IP        string
	Note      string
	Timestamp string
}

// RecordResult contains the stored state of an attendance record
type RecordResult struct {
	ID                uuid.UUID
	EmployeeNumber    int
	Direction         Direction
	Status            attendance.Status
	CheckInTime       time.Time
	CheckInLatitude   float64
	CheckInLongitude  float64
	CheckInNote       string
	CheckOutTime      *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutNote      string
	Duration          time.Duration
}

// ListRecordsInput contains filter options for the administrative listing
type ListRecordsInput struct {
	EmployeeNumber int
	Status         string
	Page           int
	PageSize       int
}

// ListRecordsResult contains a page of attendance records
type ListRecordsResult struct {
	Records  []*RecordResult
	Total    int64
	Page     int
	PageSize int
}

// UpdateRecordInput contains the administrative corrections for a record.
// Nil fields are left untouched.
type UpdateRecordInput struct {
	ID           uuid.UUID
	CheckInNote  *string
	CheckOutNote *string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
}
