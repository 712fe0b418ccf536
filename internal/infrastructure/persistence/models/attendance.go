package models

import (
	"time"

	"github.com/staffpoint/backend/internal/domain/attendance"
)

// AttendanceRecordModel is the persistence model for attendance records.
// A partial unique index on (employee_number) WHERE status = 'CHECKED_IN'
// (see migrations) keeps at most one open record per employee.
type AttendanceRecordModel struct {
	AggregateModel
	EmployeeNumber    int       `gorm:"not null;index"`
	CheckInTime       time.Time `gorm:"not null;index"`
	CheckInLatitude   float64   `gorm:"not null"`
	CheckInLongitude  float64   `gorm:"not null"`
	CheckInIP         string    `gorm:"size:45"`
	CheckInNote       string    `gorm:"size:500"`
	CheckOutTime      *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutIP        string `gorm:"size:45"`
	CheckOutNote      string `gorm:"size:500"`
	Status            string `gorm:"size:20;not null;index"`
}

// TableName returns the table name for GORM
func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}

// ToDomain converts the model to a domain record
func (m *AttendanceRecordModel) ToDomain() *attendance.Record {
	record := &attendance.Record{
		EmployeeNumber:    m.EmployeeNumber,
		CheckInTime:       m.CheckInTime,
		CheckInLatitude:   m.CheckInLatitude,
		CheckInLongitude:  m.CheckInLongitude,
		CheckInIP:         m.CheckInIP,
		CheckInNote:       m.CheckInNote,
		CheckOutTime:      m.CheckOutTime,
		CheckOutLatitude:  m.CheckOutLatitude,
		CheckOutLongitude: m.CheckOutLongitude,
		CheckOutIP:        m.CheckOutIP,
		CheckOutNote:      m.CheckOutNote,
		Status:            attendance.Status(m.Status),
	}
	m.PopulateAggregateRoot(&record.BaseAggregateRoot)
	return record
}

// FromDomain populates the model from a domain record
func (m *AttendanceRecordModel) FromDomain(record *attendance.Record) {
	m.FromDomainAggregateRoot(record.BaseAggregateRoot)
	m.EmployeeNumber = record.EmployeeNumber
	m.CheckInTime = record.CheckInTime
	m.CheckInLatitude = record.CheckInLatitude
	m.CheckInLongitude = record.CheckInLongitude
	m.CheckInIP = record.CheckInIP
	m.CheckInNote = record.CheckInNote
	m.CheckOutTime = record.CheckOutTime
	m.CheckOutLatitude = record.CheckOutLatitude
	m.CheckOutLongitude = record.CheckOutLongitude
	m.CheckOutIP = record.CheckOutIP
	m.CheckOutNote = record.CheckOutNote
	m.Status = string(record.Status)
}
