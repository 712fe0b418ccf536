package identity

import "github.com/staffpoint/backend/internal/domain/shared"

// EventTypeAccountEnrolled is raised when an enrollment completes
const EventTypeAccountEnrolled = "identity.account.enrolled"

const aggregateTypeAccount = "Account"

// AccountEnrolledEvent announces a newly created local account
type AccountEnrolledEvent struct {
	shared.BaseDomainEvent
	NationalID     int64  `json:"national_id"`
	EmployeeNumber int    `json:"employee_number"`
	Role           Role   `json:"role"`
	AccountID      string `json:"account_id"`
}

// NewAccountEnrolledEvent creates an enrolled event from an account
func NewAccountEnrolledEvent(account *Account) *AccountEnrolledEvent {
	return &AccountEnrolledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountEnrolled, aggregateTypeAccount, account.ID),
		NationalID:      account.NationalID,
		EmployeeNumber:  account.EmployeeNumber,
		Role:            account.Role,
		AccountID:       account.ID.String(),
	}
}
