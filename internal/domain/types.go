// Package domain holds the entities and enums shared by every other package:
// symbols, teams, orders, trades and positions, exactly as persisted in the
// durable store (see internal/store).
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType distinguishes limit orders, which may rest, from market orders,
// which never do.
type OrderType string

const (
	Limit  OrderType = "limit"
	Market OrderType = "market"
)

// OrderStatus is the lifecycle state of an order. Transitions are monotonic:
// pending -> partial -> {filled, cancelled}, or pending -> {filled, cancelled}
// directly. filled and cancelled are terminal.
type OrderStatus string

const (
	Pending   OrderStatus = "pending"
	Partial   OrderStatus = "partial"
	Filled    OrderStatus = "filled"
	Cancelled OrderStatus = "cancelled"
)

// Terminal reports whether status cannot transition further.
func (s OrderStatus) Terminal() bool {
	return s == Filled || s == Cancelled
}

// SymbolCategory classifies a tradable instrument.
type SymbolCategory string

const (
	Equity SymbolCategory = "equity"
	ETF    SymbolCategory = "etf"
	Option SymbolCategory = "option"
)

// Symbol is a tradable instrument. Underlying forms a DAG (e.g. an option's
// underlying is an equity); it is never materialized as an object cycle,
// only as an optional id.
type Symbol struct {
	ID                uuid.UUID
	Code              string
	Name              string
	Category          SymbolCategory
	UnderlyingID      *uuid.UUID
	TickSize          decimal.Decimal
	LotSize           int64
	TradingHalted     bool
	SettlementActive  bool
	SettlementPrice   *decimal.Decimal
}

// Tradable reports whether new orders may be accepted for this symbol.
func (s Symbol) Tradable() bool {
	return !s.TradingHalted && !s.SettlementActive
}

// Team is a competing participant.
type Team struct {
	ID       uuid.UUID
	Name     string
	JoinCode string
}

// Order is a resting or historical order row.
type Order struct {
	ID              uuid.UUID
	TeamID          uuid.UUID
	SymbolID        uuid.UUID
	Side            Side
	OrderType       OrderType
	Quantity        int64
	Price           *decimal.Decimal // required iff OrderType == Limit
	FilledQuantity  int64
	CancelledQuantity int64
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Remaining returns the quantity left to fill, excluding quantity already
// consumed by fills or by self-trade-prevention cancellation.
func (o Order) Remaining() int64 {
	return o.Quantity - o.FilledQuantity - o.CancelledQuantity
}

// Trade is an append-only execution record.
type Trade struct {
	ID            uuid.UUID
	BuyerOrderID  uuid.UUID
	SellerOrderID uuid.UUID
	SymbolID      uuid.UUID
	Quantity      int64
	Price         decimal.Decimal
	ExecutedAt    time.Time
}

// Position is the signed net holding of one team in one symbol.
type Position struct {
	TeamID       uuid.UUID
	SymbolID     uuid.UUID
	Quantity     int64 // positive = long, negative = short
	AveragePrice *decimal.Decimal
	RealizedPnL  decimal.Decimal
	UpdatedAt    time.Time
}

// Flat reports whether the position carries no open quantity.
func (p Position) Flat() bool {
	return p.Quantity == 0
}
