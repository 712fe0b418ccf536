package models

import (
	"github.com/staffpoint/backend/internal/domain/identity"
)

// AccountModel is the persistence model for locally-owned accounts.
// The unique index on national_id guards against double enrollment.
type AccountModel struct {
	AggregateModel
	NationalID     int64  `gorm:"uniqueIndex;not null"`
	EmployeeNumber int    `gorm:"not null;index"`
	PasswordHash   string `gorm:"size:100;not null"`
	Role           string `gorm:"size:10;not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the model to a domain account
func (m *AccountModel) ToDomain() *identity.Account {
	account := &identity.Account{
		NationalID:     m.NationalID,
		EmployeeNumber: m.EmployeeNumber,
		PasswordHash:   m.PasswordHash,
		Role:           identity.Role(m.Role),
	}
	m.PopulateAggregateRoot(&account.BaseAggregateRoot)
	return account
}

// FromDomain populates the model from a domain account
func (m *AccountModel) FromDomain(account *identity.Account) {
	m.FromDomainAggregateRoot(account.BaseAggregateRoot)
	m.NationalID = account.NationalID
	m.EmployeeNumber = account.EmployeeNumber
	m.PasswordHash = account.PasswordHash
	m.Role = string(account.Role)
}
