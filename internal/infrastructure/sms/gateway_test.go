package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/staffpoint/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGateway(t *testing.T, handler http.HandlerFunc) (*GatewaySender, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sender := NewGatewaySender(config.SMSConfig{
		BaseURL: server.URL,
		APIID:   "api-id",
		APIKey:  "api-key",
		Sender:  "STAFFPOINT",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	return sender, server
}

func TestGatewaySender_Send(t *testing.T) {
	t.Run("posts credentials and recipients", func(t *testing.T) {
		var got gatewayRequest
		sender, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/send", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		err := sender.Send(context.Background(), []string{"+905551112233"}, "Your verification code is 042137")

		require.NoError(t, err)
		assert.Equal(t, "api-id", got.APIID)
		assert.Equal(t, "api-key", got.APIKey)
		assert.Equal(t, "STAFFPOINT", got.Sender)
		assert.Equal(t, []string{"+905551112233"}, got.Phones)
		assert.Contains(t, got.Message, "042137")
	})

	t.Run("maps non-2xx to delivery failure", func(t *testing.T) {
		sender, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		err := sender.Send(context.Background(), []string{"+905551112233"}, "hello")
		assert.ErrorIs(t, err, ErrDeliveryFailed)
	})

	t.Run("maps gateway-level error status to delivery failure", func(t *testing.T) {
		sender, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"error","message":"invalid credentials"}`))
		})

		err := sender.Send(context.Background(), []string{"+905551112233"}, "hello")
		assert.ErrorIs(t, err, ErrDeliveryFailed)
	})

	t.Run("maps unreachable gateway to delivery failure", func(t *testing.T) {
		sender, server := newGateway(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		err := sender.Send(context.Background(), []string{"+905551112233"}, "hello")
		assert.ErrorIs(t, err, ErrDeliveryFailed)
	})
}
