package passes

import "time"

// IssueTokenInput contains the input for issuing a QR token
type IssueTokenInput struct {
	EmployeeNumber int
	NationalID     int64
	IP             string
}

// TokenResult contains the presentable view of a QR token
type TokenResult struct {
	Token           string
	EmployeeNumber  int
	FirstName       string
	LastName        string
	IssuedAt        time.Time
	ExpiresAt       time.Time
	UsedForCheckIn  bool
	UsedForCheckOut bool
	Reused          bool
}

// RenderInput contains the input for rendering a token as a QR image
type RenderInput struct {
	Token string
	Size  int
}
