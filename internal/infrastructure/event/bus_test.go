package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "test", uuid.New()),
	}
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to subscribed handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		var delivered []string
		bus.Subscribe("employee.checked_in", func(ctx context.Context, event shared.DomainEvent) error {
			delivered = append(delivered, event.EventType())
			return nil
		})

		require.NoError(t, bus.Publish(ctx, newTestEvent("employee.checked_in")))
		assert.Equal(t, []string{"employee.checked_in"}, delivered)
	})

	t.Run("ignores events without handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		assert.NoError(t, bus.Publish(ctx, newTestEvent("employee.checked_out")))
	})

	t.Run("a failing handler does not block the next one", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		var calls int
		bus.Subscribe("account.enrolled", func(ctx context.Context, event shared.DomainEvent) error {
			return errors.New("boom")
		})
		bus.Subscribe("account.enrolled", func(ctx context.Context, event shared.DomainEvent) error {
			calls++
			return nil
		})

		require.NoError(t, bus.Publish(ctx, newTestEvent("account.enrolled")))
		assert.Equal(t, 1, calls)
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		bus.Subscribe("account.enrolled", func(ctx context.Context, event shared.DomainEvent) error {
			panic("handler bug")
		})

		assert.NotPanics(t, func() {
			_ = bus.Publish(ctx, newTestEvent("account.enrolled"))
		})
	})
}
