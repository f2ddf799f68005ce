// Package events is a small in-process pub/sub bus for completed-trade
// notifications. Slow subscribers drop events rather than block the
// publisher.
package events

import (
	"sync"

	"github.com/shopspring/decimal"
)

// TypeTradeResult labels the one event kind this service emits.
const TypeTradeResult = "trade_result"

// TradeResultEvent is the completed-trade payload observers receive:
// the trade's identity plus the settlement figures.
type TradeResultEvent struct {
	TradeID      int64           `json:"trade_id"`
	Symbol       string          `json:"symbol"`
	SettleAmount decimal.Decimal `json:"se_amount"`
	AcctBalance  decimal.Decimal `json:"acct_bal"`
}

type Event struct {
	Type  string           `json:"type"`
	Trade TradeResultEvent `json:"trade"`
}

// TradeResult wraps the payload in the envelope subscribers filter on.
func TradeResult(t TradeResultEvent) Event {
	return Event{Type: TypeTradeResult, Trade: t}
}

type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, 100)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.RUnlock()
}
