package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/staffpoint/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// GatewaySender delivers messages through an HTTP SMS gateway
type GatewaySender struct {
	baseURL string
	apiID   string
	apiKey  string
	sender  string
	client  *http.Client
	logger  *zap.Logger
}

// NewGatewaySender creates a sender for the configured SMS gateway
func NewGatewaySender(cfg config.SMSConfig, logger *zap.Logger) *GatewaySender {
	return &GatewaySender{
		baseURL: cfg.BaseURL,
		apiID:   cfg.APIID,
		apiKey:  cfg.APIKey,
		sender:  cfg.Sender,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type gatewayRequest struct {
	APIID   string   `json:"api_id"`
	APIKey  string   `json:"api_key"`
	Sender  string   `json:"sender"`
	Message string   `json:"message_content"`
	Phones  []string `json:"phones"`
}

type gatewayResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send posts the message to the gateway. Any transport error, non-2xx
// status or gateway-level rejection maps to ErrDeliveryFailed.
func (s *GatewaySender) Send(ctx context.Context, phones []string, message string) error {
	payload, err := json.Marshal(gatewayRequest{
		APIID:   s.apiID,
		APIKey:  s.apiKey,
		Sender:  s.sender,
		Message: message,
		Phones:  phones,
	})
	if err != nil {
		return fmt.Errorf("failed to encode SMS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("SMS gateway unreachable", zap.Error(err))
		return ErrDeliveryFailed
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error("SMS gateway rejected message",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return ErrDeliveryFailed
	}

	var gwResp gatewayResponse
	if err := json.Unmarshal(body, &gwResp); err == nil && gwResp.Status == "error" {
		s.logger.Error("SMS gateway returned error status",
			zap.String("message", gwResp.Message))
		return ErrDeliveryFailed
	}

	s.logger.Info("SMS delivered", zap.Int("recipients", len(phones)))
	return nil
}
