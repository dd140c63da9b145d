// Package notify defines the market-data fan-out surface: the events an
// exchange.Manager emits after every accepted order and every trade, and the
// Notifier interface that delivers them. internal/notify/log and
// internal/notify/wsfeed are the two implementations.
package notify

import (
	"time"

	"fenrir/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepthEntry is one price level of a book-depth snapshot.
type DepthEntry struct {
	Price    decimal.Decimal
	Quantity int64
}

// BookUpdateEvent reports a post-match depth snapshot for one symbol.
type BookUpdateEvent struct {
	SymbolID uuid.UUID
	Symbol   string
	Bids     []DepthEntry
	Asks     []DepthEntry
	At       time.Time
}

// TradeEvent reports one executed trade.
type TradeEvent struct {
	Trade    domain.Trade
	Symbol   string
}

// CancelEvent reports an order cancellation, including self-trade prevention.
type CancelEvent struct {
	OrderID  uuid.UUID
	SymbolID uuid.UUID
	Symbol   string
	Quantity int64
	Reason   string
}

// Notifier is the market-data sink an exchange.Manager publishes to. Every
// method must return promptly; slow subscribers are the implementation's
// problem to shed, not the caller's problem to wait on.
type Notifier interface {
	BookUpdate(BookUpdateEvent)
	Trade(TradeEvent)
	Cancel(CancelEvent)
}

// Multi fans the same event out to every Notifier in order, so a manager can
// run the log notifier and the websocket notifier side by side.
type Multi []Notifier

func (m Multi) BookUpdate(e BookUpdateEvent) {
	for _, n := range m {
		n.BookUpdate(e)
	}
}

func (m Multi) Trade(e TradeEvent) {
	for _, n := range m {
		n.Trade(e)
	}
}

func (m Multi) Cancel(e CancelEvent) {
	for _, n := range m {
		n.Cancel(e)
	}
}
