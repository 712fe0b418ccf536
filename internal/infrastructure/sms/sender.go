package sms

import (
	"context"

	"github.com/staffpoint/backend/internal/domain/shared"
)

// ErrDeliveryFailed is returned when the gateway rejects or cannot deliver
// a message. Enrollment maps it straight onto the API response.
var ErrDeliveryFailed = shared.NewDomainError("DELIVERY_FAILED", "Failed to deliver SMS message")

// Sender delivers short text messages to one or more phone numbers
type Sender interface {
	Send(ctx context.Context, phones []string, message string) error
}
