package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/domain/identity"
	"github.com/staffpoint/backend/internal/domain/shared"
	"github.com/staffpoint/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements identity.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Create inserts a new account. The unique index on national_id turns a
// concurrent double enrollment into ErrAlreadyRegistered.
func (r *GormAccountRepository) Create(ctx context.Context, account *identity.Account) error {
	var model models.AccountModel
	model.FromDomain(account)

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return identity.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

// Update persists the account's current state
func (r *GormAccountRepository) Update(ctx context.Context, account *identity.Account) error {
	var model models.AccountModel
	model.FromDomain(account)

	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
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

// FindByID finds an account by its id
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNationalID finds an account by national ID
func (r *GormAccountRepository) FindByNationalID(ctx context.Context, nationalID int64) (*identity.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "national_id = ?", nationalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByNationalID reports whether an account exists for the national ID
func (r *GormAccountRepository) ExistsByNationalID(ctx context.Context, nationalID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("national_id = ?", nationalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of accounts
func (r *GormAccountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
