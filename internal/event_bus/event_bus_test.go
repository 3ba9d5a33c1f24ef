package event_bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should deliver typed payloads in subscription order", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var received []string
		SubscribeTyped(bus, HolidayAdded, func(e EventT[HolidayChanged]) error {
			received = append(received, "first:"+e.Data.Name)
			return nil
		})
		SubscribeTyped(bus, HolidayAdded, func(e EventT[HolidayChanged]) error {
			received = append(received, "second:"+e.Data.Name)
			return nil
		})
		SubscribeTyped(bus, HolidayRemoved, func(e EventT[HolidayChanged]) error {
			received = append(received, "removed")
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), HolidayAdded, HolidayChanged{
			Date: time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
			Name: "Independence Day",
		}))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"first:Independence Day", "second:Independence Day"}, received)
	})

	t.Run("should ignore payloads of another type", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		SubscribeTyped(bus, HolidayAdded, func(e EventT[HolidayChanged]) error {
			called = true
			return nil
		})

		err := bus.Publish(NewEvent(context.Background(), HolidayAdded, "2024-08-15"))

		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("should keep dispatching after failures and panics", func(t *testing.T) {
		// given
		bus := NewEventBus()
		boom := errors.New("boom")
		reached := false
		bus.Subscribe(HolidayRemoved, func(Event) error { return boom })
		bus.Subscribe(HolidayRemoved, func(Event) error { panic("nil map") })
		bus.Subscribe(HolidayRemoved, func(Event) error {
			reached = true
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), HolidayRemoved, HolidayChanged{}))

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "panicked")
		assert.True(t, reached)
	})

	t.Run("should stop delivering after unsubscribe", func(t *testing.T) {
		bus := NewEventBus()
		calls := 0
		unsubscribe := bus.Subscribe(HolidayAdded, func(Event) error {
			calls++
			return nil
		})

		require.NoError(t, bus.Publish(NewEvent(context.Background(), HolidayAdded, nil)))
		unsubscribe()
		require.NoError(t, bus.Publish(NewEvent(context.Background(), HolidayAdded, nil)))

		assert.Equal(t, 1, calls)
	})

	t.Run("should refuse a cancelled context", func(t *testing.T) {
		bus := NewEventBus()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(NewEvent(ctx, HolidayAdded, nil))

		assert.ErrorIs(t, err, context.Canceled)
	})
}
