package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/domain/attendance"
	"github.com/staffpoint/backend/internal/domain/shared"
	"github.com/staffpoint/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRecordRepository implements attendance.RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// Create inserts a new record. The partial unique index on open records
// turns a concurrent second check-in into ErrAlreadyCheckedIn.
func (r *GormRecordRepository) Create(ctx context.Context, record *attendance.Record) error {
	var model models.AttendanceRecordModel
	model.FromDomain(record)

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return attendance.ErrAlreadyCheckedIn
		}
		return err
	}
	return nil
}

// Update persists the record's current state
func (r *GormRecordRepository) Update(ctx context.Context, record *attendance.Record) error {
	var model models.AttendanceRecordModel
	model.FromDomain(record)

	result := r.db.WithContext(ctx).
		Model(&models.AttendanceRecordModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a record by id
func (r *GormRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AttendanceRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a record by its id
func (r *GormRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*attendance.Record, error) {
	var model models.AttendanceRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByEmployee returns the employee's open record, if any
func (r *GormRecordRepository) FindOpenByEmployee(ctx context.Context, employeeNumber int) (*attendance.Record, error) {
	var model models.AttendanceRecordModel
	if err := r.db.WithContext(ctx).
		Where("employee_number = ? AND status = ?", employeeNumber, string(attendance.StatusCheckedIn)).
		Order("check_in_time DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmployee lists records for an employee, newest check-in first
func (r *GormRecordRepository) FindByEmployee(ctx context.Context, employeeNumber int) ([]*attendance.Record, error) {
	var recordModels []models.AttendanceRecordModel
	if err := r.db.WithContext(ctx).
		Where("employee_number = ?", employeeNumber).
		Order("check_in_time DESC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]*attendance.Record, len(recordModels))
	for i := range recordModels {
		records[i] = recordModels[i].ToDomain()
	}
	return records, nil
}

// FindAll finds records matching the filter with a total count
func (r *GormRecordRepository) FindAll(ctx context.Context, filter attendance.RecordFilter) ([]*attendance.Record, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AttendanceRecordModel{})
	if filter.EmployeeNumber > 0 {
		query = query.Where("employee_number = ?", filter.EmployeeNumber)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recordModels []models.AttendanceRecordModel
	if err := query.
		Order("check_in_time DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&recordModels).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*attendance.Record, len(recordModels))
	for i := range recordModels {
		records[i] = recordModels[i].ToDomain()
	}
	return records, total, nil
}
