package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/domain/attendance"
	"github.com/staffpoint/backend/internal/domain/passes"
	"github.com/staffpoint/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// punchTimeLayout is the local date-time format accepted from scanners
const punchTimeLayout = "2006-01-02T15:04:05"

// TokenGateway is the slice of the token lifecycle the attendance flows need
type TokenGateway interface {
	FetchIfPresentable(ctx context.Context, token string) (*passes.QRToken, error)
	ConsumeForCheckIn(ctx context.Context, token string) error
	ConsumeForCheckOut(ctx context.Context, token string) error
}

// AttendanceService enforces the per-employee attendance state machine:
// at most one open CHECKED_IN record, closed exactly once.
type AttendanceService struct {
	recordRepo attendance.RecordRepository
	tokens     TokenGateway
	eventBus   shared.EventBus
	clock      shared.Clock
	logger     *zap.Logger
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	recordRepo attendance.RecordRepository,
	tokens TokenGateway,
	eventBus shared.EventBus,
	clock shared.Clock,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		recordRepo: recordRepo,
		tokens:     tokens,
		eventBus:   eventBus,
		clock:      clock,
		logger:     logger,
	}
}

// CheckIn opens a new attendance record against a presentable token
func (s *AttendanceService) CheckIn(ctx context.Context, input PunchInput) (*RecordResult, error) {
	if err := attendance.ValidateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	token, err := s.tokens.FetchIfPresentable(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	_, err = s.recordRepo.FindOpenByEmployee(ctx, token.EmployeeNumber)
	if err == nil {
		return nil, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if token.UsedForCheckIn {
		return nil, passes.ErrTokenConsumed
	}

	return s.openRecord(ctx, token, input)
}

// CheckOut closes the employee's open attendance record
func (s *AttendanceService) CheckOut(ctx context.Context, input PunchInput) (*RecordResult, error) {
	if err := attendance.ValidateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	token, err := s.tokens.FetchIfPresentable(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	if token.UsedForCheckOut {
		return nil, passes.ErrTokenConsumed
	}

	record, err := s.recordRepo.FindOpenByEmployee(ctx, token.EmployeeNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, attendance.ErrNoOpenCheckIn
		}
		return nil, err
	}

	return s.closeRecord(ctx, token, record, input)
}

// Record decides the punch direction from the employee's open record: no
// open record means check-in, an open record means check-out.
func (s *AttendanceService) Record(ctx context.Context, input PunchInput) (*RecordResult, error) {
	if err := attendance.ValidateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	token, err := s.tokens.FetchIfPresentable(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	open, err := s.recordRepo.FindOpenByEmployee(ctx, token.EmployeeNumber)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if token.UsedForCheckIn {
			return nil, passes.ErrTokenConsumed
		}
		return s.openRecord(ctx, token, input)
	}

	if token.UsedForCheckOut {
		return nil, passes.ErrTokenConsumed
	}
	return s.closeRecord(ctx, token, open, input)
}

// History lists the employee's records, newest check-in first
func (s *AttendanceService) History(ctx context.Context, employeeNumber int) ([]*RecordResult, error) {
	records, err := s.recordRepo.FindByEmployee(ctx, employeeNumber)
	if err != nil {
		return nil, err
	}
	results := make([]*RecordResult, len(records))
	for i, record := range records {
		results[i] = toRecordResult(record, directionOf(record))
	}
	return results, nil
}

// List returns a filtered page of records for administrative review
func (s *AttendanceService) List(ctx context.Context, input ListRecordsInput) (*ListRecordsResult, error) {
	filter := attendance.RecordFilter{
		EmployeeNumber: input.EmployeeNumber,
		Status:         attendance.Status(input.Status),
		Page:           input.Page,
		PageSize:       input.PageSize,
	}

	records, total, err := s.recordRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := make([]*RecordResult, len(records))
	for i, record := range records {
		results[i] = toRecordResult(record, directionOf(record))
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	return &ListRecordsResult{
		Records:  results,
		Total:    total,
		Page:     page,
		PageSize: filter.Limit(),
	}, nil
}

// Get returns a single record by id
func (s *AttendanceService) Get(ctx context.Context, id uuid.UUID) (*RecordResult, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRecordResult(record, directionOf(record)), nil
}

// UpdateRecord applies administrative corrections to a stored record
func (s *AttendanceService) UpdateRecord(ctx context.Context, input UpdateRecordInput) (*RecordResult, error) {
	record, err := s.recordRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.CheckInNote != nil {
		record.CheckInNote = *input.CheckInNote
	}
	if input.CheckOutNote != nil {
		record.CheckOutNote = *input.CheckOutNote
	}
	if input.CheckInTime != nil {
		record.CheckInTime = *input.CheckInTime
	}
	if input.CheckOutTime != nil {
		if record.Status != attendance.StatusCheckedOut {
			return nil, shared.NewDomainError("INVALID_STATE", "Cannot set a check-out time on an open record")
		}
		record.CheckOutTime = input.CheckOutTime
	}
	record.IncrementVersion()

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Attendance record updated",
		zap.String("record_id", record.ID.String()),
		zap.Int("employee_number", record.EmployeeNumber))

	return toRecordResult(record, directionOf(record)), nil
}

// DeleteRecord removes a record by id
func (s *AttendanceService) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if err := s.recordRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Attendance record deleted", zap.String("record_id", id.String()))
	return nil
}

func (s *AttendanceService) openRecord(ctx context.Context, token *passes.QRToken, input PunchInput) (*RecordResult, error) {
	at := s.punchTime(input.Timestamp)

	record, err := attendance.NewRecord(token.EmployeeNumber, at,
		input.Latitude, input.Longitude, input.IP, input.Note)
	if err != nil {
		return nil, err
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	// The record insert and the token-flag update are separate writes, so a
	// consume failure must not leave an open record behind.
	if err := s.tokens.ConsumeForCheckIn(ctx, token.Token); err != nil {
		s.logger.Error("Failed to consume token for check-in",
			zap.String("token", token.Token), zap.Error(err))
		if delErr := s.recordRepo.Delete(ctx, record.ID); delErr != nil {
			s.logger.Error("Failed to roll back attendance record",
				zap.String("record_id", record.ID.String()), zap.Error(delErr))
		}
		return nil, err
	}

	if err := shared.PublishEvents(ctx, s.eventBus, record); err != nil {
		s.logger.Warn("Failed to publish attendance events", zap.Error(err))
	}

	s.logger.Info("Employee checked in",
		zap.Int("employee_number", token.EmployeeNumber),
		zap.Time("at", at))

	return toRecordResult(record, DirectionCheckIn), nil
}

func (s *AttendanceService) closeRecord(ctx context.Context, token *passes.QRToken, record *attendance.Record, input PunchInput) (*RecordResult, error) {
	at := s.punchTime(input.Timestamp)

	if err := record.Close(at, input.Latitude, input.Longitude, input.IP, input.Note); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	// Mirror of the check-in rollback: a consume failure reopens the record
	// so the caller never observes a close without its token flag.
	if err := s.tokens.ConsumeForCheckOut(ctx, token.Token); err != nil {
		s.logger.Error("Failed to consume token for check-out",
			zap.String("token", token.Token), zap.Error(err))
		record.Reopen()
		if revErr := s.recordRepo.Update(ctx, record); revErr != nil {
			s.logger.Error("Failed to roll back check-out",
				zap.String("record_id", record.ID.String()), zap.Error(revErr))
		}
		return nil, err
	}

	if err := shared.PublishEvents(ctx, s.eventBus, record); err != nil {
		s.logger.Warn("Failed to publish attendance events", zap.Error(err))
	}

	s.logger.Info("Employee checked out",
		zap.Int("employee_number", token.EmployeeNumber),
		zap.Time("at", at),
		zap.Duration("duration", record.Duration()))

	return toRecordResult(record, DirectionCheckOut), nil
}

// punchTime parses the scanner-supplied timestamp, falling back to the
// server clock when absent or malformed.
func (s *AttendanceService) punchTime(raw string) time.Time {
	if raw == "" {
		return s.clock.Now()
	}
	at, err := time.ParseInLocation(punchTimeLayout, raw, time.Local)
	if err != nil {
		return s.clock.Now()
	}
	return at
}

func directionOf(record *attendance.Record) Direction {
	if record.IsOpen() {
		return DirectionCheckIn
	}
	return DirectionCheckOut
}

func toRecordResult(record *attendance.Record, direction Direction) *RecordResult {
	return &RecordResult{
		ID:                record.ID,
		EmployeeNumber:    record.EmployeeNumber,
		Direction:         direction,
		Status:            record.Status,
		CheckInTime:       record.CheckInTime,
		CheckInLatitude:   record.CheckInLatitude,
		CheckInLongitude:  record.CheckInLongitude,
		CheckInNote:       record.CheckInNote,
		CheckOutTime:      record.CheckOutTime,
		CheckOutLatitude:  record.CheckOutLatitude,
		CheckOutLongitude: record.CheckOutLongitude,
		CheckOutNote:      record.CheckOutNote,
		Duration:          record.Duration(),
	}
}
