package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()
	defer bus.Unsubscribe(a)
	defer bus.Unsubscribe(b)

	bus.Publish(TradeResult(TradeResultEvent{TradeID: 600, Symbol: "ROACH"}))

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	got := <-a
	assert.Equal(t, TypeTradeResult, got.Type)
	assert.Equal(t, int64(600), got.Trade.TradeID)
	assert.Equal(t, "ROACH", (<-b).Trade.Symbol)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	bus.Publish(TradeResult(TradeResultEvent{TradeID: 600}))
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	for i := 0; i < 150; i++ {
		bus.Publish(TradeResult(TradeResultEvent{TradeID: int64(i)}))
	}
	assert.Len(t, ch, 100, "overflow is dropped, not blocked on")
}
