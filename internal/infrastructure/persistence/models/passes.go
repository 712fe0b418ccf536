package models

import (
	"time"

	"github.com/staffpoint/backend/internal/domain/passes"
)

// QRTokenModel is the persistence model for QR tokens.
// A partial unique index on (employee_number, date of created_at) WHERE NOT
// (used_for_check_in AND used_for_check_out) (see migrations) serializes
// same-day issuance.
type QRTokenModel struct {
	AggregateModel
	Token           string    `gorm:"size:64;uniqueIndex;not null"`
	EmployeeNumber  int       `gorm:"not null;index"`
	NationalID      int64     `gorm:"not null"`
	FirstName       string    `gorm:"size:100"`
	LastName        string    `gorm:"size:100"`
	IssuedIP        string    `gorm:"size:45"`
	ExpiresAt       time.Time `gorm:"not null"`
	UsedForCheckIn  bool      `gorm:"not null;default:false"`
	UsedForCheckOut bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (QRTokenModel) TableName() string {
	return "qr_tokens"
}

// ToDomain converts the model to a domain token
func (m *QRTokenModel) ToDomain() *passes.QRToken {
	token := &passes.QRToken{
		Token:           m.Token,
		EmployeeNumber:  m.EmployeeNumber,
		NationalID:      m.NationalID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		IssuedIP:        m.IssuedIP,
		ExpiresAt:       m.ExpiresAt,
		UsedForCheckIn:  m.UsedForCheckIn,
		UsedForCheckOut: m.UsedForCheckOut,
	}
	m.PopulateAggregateRoot(&token.BaseAggregateRoot)
	return token
}

// FromDomain populates the model from a domain token
func (m *QRTokenModel) FromDomain(token *passes.QRToken) {
	m.FromDomainAggregateRoot(token.BaseAggregateRoot)
	m.Token = token.Token
	m.EmployeeNumber = token.EmployeeNumber
	m.NationalID = token.NationalID
	m.FirstName = token.FirstName
	m.LastName = token.LastName
	m.IssuedIP = token.IssuedIP
	m.ExpiresAt = token.ExpiresAt
	m.UsedForCheckIn = token.UsedForCheckIn
	m.UsedForCheckOut = token.UsedForCheckOut
}
