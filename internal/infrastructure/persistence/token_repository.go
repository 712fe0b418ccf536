package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/staffpoint/backend/internal/domain/passes"
	"github.com/staffpoint/backend/internal/domain/shared"
	"github.com/staffpoint/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTokenRepository implements passes.TokenRepository using GORM
type GormTokenRepository struct {
	db *gorm.DB
}

// NewGormTokenRepository creates a new GormTokenRepository
func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

// Create inserts a new token. The partial unique day-slot index turns a
// concurrent issuance into shared.ErrAlreadyExists; the caller re-reads
// the surviving row.
func (r *GormTokenRepository) Create(ctx context.Context, token *passes.QRToken) error {
	var model models.QRTokenModel
	model.FromDomain(token)

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByToken finds a token by its string value
func (r *GormTokenRepository) FindByToken(ctx context.Context, token string) (*passes.QRToken, error) {
	var model models.QRTokenModel
	if err := r.db.WithContext(ctx).First(&model, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindCurrentByEmployee returns the employee's not-fully-consumed token
// issued on the calendar day of `day`.
func (r *GormTokenRepository) FindCurrentByEmployee(ctx context.Context, employeeNumber int, day time.Time) (*passes.QRToken, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var model models.QRTokenModel
	if err := r.db.WithContext(ctx).
		Where("employee_number = ? AND created_at >= ? AND created_at < ?", employeeNumber, dayStart, dayEnd).
		Where("NOT (used_for_check_in AND used_for_check_out)").
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// MarkUsedForCheckIn sets the check-in flag in a single statement
func (r *GormTokenRepository) MarkUsedForCheckIn(ctx context.Context, token string) error {
	return r.markUsed(ctx, token, "used_for_check_in")
}

// MarkUsedForCheckOut sets the check-out flag in a single statement
func (r *GormTokenRepository) MarkUsedForCheckOut(ctx context.Context, token string) error {
	return r.markUsed(ctx, token, "used_for_check_out")
}

func (r *GormTokenRepository) markUsed(ctx context.Context, token, column string) error {
	result := r.db.WithContext(ctx).
		Model(&models.QRTokenModel{}).
		Where("token = ?", token).
		Updates(map[string]any{column: true, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
