// Package book implements the per-symbol, price-time-priority limit order
// book: the matching engine described by the owning exchange.Manager. An
// Engine is not safe for concurrent use; the manager serializes access to it
// through a single per-symbol actor (see internal/exchange).
package book

import (
	"errors"

	"fenrir/internal/domain"
	"fenrir/internal/price"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
)

var (
	// ErrInvalidRestingOrder is returned by AddResting when the order cannot
	// possibly rest (market order, non-positive remaining).
	ErrInvalidRestingOrder = errors.New("book: order cannot rest")
)

// CancelReason identifies why the engine force-reduced a resting order.
type CancelReason string

// SelfTradePrevention is presently the only cancel reason the engine emits.
const SelfTradePrevention CancelReason = "self_trade_prevention"

// Entry is the engine's view of an order: either resting in a Level or being
// matched as the incoming order of an AddOrder call. The manager builds one
// from an domain.Order row and reads Remaining back after the call returns.
type Entry struct {
	OrderID   uuid.UUID
	TeamID    uuid.UUID
	Side      domain.Side
	Market    bool
	Price     price.Ticks // ignored when Market is true
	Remaining int64
}

// Trade is one execution produced by AddOrder, in matching order.
type Trade struct {
	BuyerOrderID  uuid.UUID
	SellerOrderID uuid.UUID
	Quantity      int64
	Price         price.Ticks
}

// Cancel is a forced reduction of a resting order's remaining quantity,
// produced by self-trade prevention. It never implies a trade.
type Cancel struct {
	OrderID  uuid.UUID
	Quantity int64
	Reason   CancelReason
}

// Level is a FIFO queue of resting entries at a single price.
type Level struct {
	Price  price.Ticks
	Orders []*Entry
}

// DepthLevel is one aggregated row of Depth output.
type DepthLevel struct {
	Price    price.Ticks
	Quantity int64
}

type location struct {
	entry *Entry
	level *Level
	side  domain.Side
}

// Engine is the matching engine for a single symbol.
type Engine struct {
	bids *btree.BTreeG[*Level] // best (highest) price first
	asks *btree.BTreeG[*Level] // best (lowest) price first

	byID   map[uuid.UUID]*location
	byTeam map[uuid.UUID]map[domain.Side]map[uuid.UUID]struct{}
}

// New creates an empty engine for one symbol.
func New() *Engine {
	bids := btree.NewBTreeG(func(a, b *Level) bool { return a.Price > b.Price })
	asks := btree.NewBTreeG(func(a, b *Level) bool { return a.Price < b.Price })
	return &Engine{
		bids:   bids,
		asks:   asks,
		byID:   make(map[uuid.UUID]*location),
		byTeam: make(map[uuid.UUID]map[domain.Side]map[uuid.UUID]struct{}),
	}
}

func (e *Engine) levelsFor(side domain.Side) *btree.BTreeG[*Level] {
	if side == domain.Buy {
		return e.bids
	}
	return e.asks
}

// AddResting inserts a known-open limit order without attempting to match
// it, used by the manager to rebuild engine state from persisted orders.
func (e *Engine) AddResting(entry *Entry) error {
	if entry.Market || entry.Remaining <= 0 {
		return ErrInvalidRestingOrder
	}
	e.insertTail(entry)
	return nil
}

// AddOrder runs the full self-trade-prevention and matching flow for an
// incoming order and returns the trades and cancels it produced, both in the
// order they occurred. entry.Remaining is mutated in place; the caller reads
// it back to decide whether the order rests, fills or is discarded.
func (e *Engine) AddOrder(entry *Entry) (trades []Trade, cancels []Cancel) {
	opposite := e.levelsFor(entry.Side.Opposite())

	cancels = e.stpPrepass(opposite, entry)
	trades = e.matchAgainst(opposite, entry)

	if !entry.Market && entry.Remaining > 0 {
		e.insertTail(entry)
	}
	return trades, cancels
}

// RemoveOrder detaches a resting order from its level and the indexes.
// Reports whether it was present.
func (e *Engine) RemoveOrder(orderID uuid.UUID) bool {
	loc, ok := e.byID[orderID]
	if !ok {
		return false
	}
	e.spliceOut(loc.level, loc.entry)
	if len(loc.level.Orders) == 0 {
		e.levelsFor(loc.side).Delete(loc.level)
	}
	e.deindex(loc.entry)
	return true
}

// AllOrderIDs returns every order id currently resting in the book, in no
// particular order. Used by settlement to cancel an entire book at once.
func (e *Engine) AllOrderIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(e.byID))
	for id := range e.byID {
		out = append(out, id)
	}
	return out
}

// Depth returns up to n best levels per side, in priority order.
func (e *Engine) Depth(n int) (bids, asks []DepthLevel) {
	return e.scanDepth(e.bids, n), e.scanDepth(e.asks, n)
}

func (e *Engine) scanDepth(levels *btree.BTreeG[*Level], n int) []DepthLevel {
	out := make([]DepthLevel, 0, n)
	levels.Scan(func(level *Level) bool {
		if len(out) >= n {
			return false
		}
		var qty int64
		for _, o := range level.Orders {
			qty += o.Remaining
		}
		out = append(out, DepthLevel{Price: level.Price, Quantity: qty})
		return true
	})
	return out
}

// TeamOrders returns the ids of orders a team has resting on one side, read
// from the per-team index without a book scan. Matching itself does not use
// it.
func (e *Engine) TeamOrders(teamID uuid.UUID, side domain.Side) []uuid.UUID {
	sides, ok := e.byTeam[teamID]
	if !ok {
		return nil
	}
	ids, ok := sides[side]
	if !ok {
		return nil
	}
	out := make([]uuid.UUID, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}

// stpPrepass cancels the incoming order's own team's crossing resting
// quantity on the opposite side. It never produces a trade. For a market
// order, canceled quantity is also subtracted from entry.Remaining so a
// market order with only self-liquidity to sweep terminates instead of
// resting or sweeping through its own cancelled quantity.
func (e *Engine) stpPrepass(levels *btree.BTreeG[*Level], entry *Entry) []Cancel {
	var cancels []Cancel
	var empties []*Level

	levels.Scan(func(level *Level) bool {
		if entry.Market && entry.Remaining == 0 {
			return false
		}
		if !entry.Market && !price.Satisfies(entry.Side, entry.Price, level.Price) {
			return false
		}
		idx := 0
		for idx < len(level.Orders) {
			resting := level.Orders[idx]
			if resting.TeamID != entry.TeamID {
				idx++
				continue
			}
			qty := min64(entry.Remaining, resting.Remaining)
			if qty > 0 {
				resting.Remaining -= qty
				cancels = append(cancels, Cancel{OrderID: resting.OrderID, Quantity: qty, Reason: SelfTradePrevention})
				if entry.Market {
					entry.Remaining -= qty
				}
			}
			if resting.Remaining == 0 {
				e.deindex(resting)
				level.Orders = append(level.Orders[:idx], level.Orders[idx+1:]...)
				continue
			}
			idx++
		}
		if len(level.Orders) == 0 {
			empties = append(empties, level)
		}
		return true
	})

	for _, lvl := range empties {
		levels.Delete(lvl)
	}
	return cancels
}

// matchAgainst trades the incoming entry against different-team resting
// liquidity on levels that satisfy its price, in price-time priority.
// Same-team entries left over from the STP pre-pass are skipped in place;
// they never trade with the incoming order.
func (e *Engine) matchAgainst(levels *btree.BTreeG[*Level], entry *Entry) []Trade {
	var trades []Trade
	var empties []*Level

	levels.Scan(func(level *Level) bool {
		if entry.Remaining == 0 {
			return false
		}
		if !entry.Market && !price.Satisfies(entry.Side, entry.Price, level.Price) {
			return false
		}
		idx := 0
		for idx < len(level.Orders) && entry.Remaining > 0 {
			resting := level.Orders[idx]
			if resting.TeamID == entry.TeamID {
				idx++
				continue
			}
			qty := min64(entry.Remaining, resting.Remaining)
			trades = append(trades, e.buildTrade(entry, resting, qty, level.Price))
			entry.Remaining -= qty
			resting.Remaining -= qty
			if resting.Remaining == 0 {
				e.deindex(resting)
				level.Orders = append(level.Orders[:idx], level.Orders[idx+1:]...)
				continue
			}
			idx++
		}
		if len(level.Orders) == 0 {
			empties = append(empties, level)
		}
		return true
	})

	for _, lvl := range empties {
		levels.Delete(lvl)
	}
	return trades
}

func (e *Engine) buildTrade(incoming, resting *Entry, qty int64, at price.Ticks) Trade {
	if incoming.Side == domain.Buy {
		return Trade{BuyerOrderID: incoming.OrderID, SellerOrderID: resting.OrderID, Quantity: qty, Price: at}
	}
	return Trade{BuyerOrderID: resting.OrderID, SellerOrderID: incoming.OrderID, Quantity: qty, Price: at}
}

func (e *Engine) insertTail(entry *Entry) {
	levels := e.levelsFor(entry.Side)
	level, ok := levels.GetMut(&Level{Price: entry.Price})
	if !ok {
		level = &Level{Price: entry.Price}
		levels.Set(level)
	}
	level.Orders = append(level.Orders, entry)
	e.index(entry, level)
}

func (e *Engine) spliceOut(level *Level, entry *Entry) {
	for i, o := range level.Orders {
		if o == entry {
			level.Orders = append(level.Orders[:i], level.Orders[i+1:]...)
			return
		}
	}
}

func (e *Engine) index(entry *Entry, level *Level) {
	e.byID[entry.OrderID] = &location{entry: entry, level: level, side: entry.Side}
	sides, ok := e.byTeam[entry.TeamID]
	if !ok {
		sides = make(map[domain.Side]map[uuid.UUID]struct{})
		e.byTeam[entry.TeamID] = sides
	}
	ids, ok := sides[entry.Side]
	if !ok {
		ids = make(map[uuid.UUID]struct{})
		sides[entry.Side] = ids
	}
	ids[entry.OrderID] = struct{}{}
}

func (e *Engine) deindex(entry *Entry) {
	delete(e.byID, entry.OrderID)
	if sides, ok := e.byTeam[entry.TeamID]; ok {
		if ids, ok := sides[entry.Side]; ok {
			delete(ids, entry.OrderID)
			if len(ids) == 0 {
				delete(sides, entry.Side)
			}
		}
		if len(sides) == 0 {
			delete(e.byTeam, entry.TeamID)
		}
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
