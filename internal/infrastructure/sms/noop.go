package sms

import (
	"context"

	"go.uber.org/zap"
)

// NoopSender logs messages instead of sending them. Used in development
// when no gateway is configured.
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a sender that only logs
func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// Send logs the message and reports success
func (s *NoopSender) Send(ctx context.Context, phones []string, message string) error {
	s.logger.Info("SMS delivery skipped (noop sender)",
		zap.Strings("phones", phones),
		zap.String("message", message))
	return nil
}
