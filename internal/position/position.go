// Package position implements the weighted-average-cost position and
// realized-PnL accounting applied after every trade, and at settlement.
// Every computation here runs on decimal.Decimal; no float64 ever appears in
// a PnL accumulator.
package position

import (
	"fenrir/internal/domain"

	"github.com/shopspring/decimal"
)

// ApplyBuy applies a buy of qty at price p to pos and returns the updated
// position. pos is not mutated in place, following the package's pure-function
// style; callers persist the returned value.
func ApplyBuy(pos domain.Position, qty int64, p decimal.Decimal) domain.Position {
	q := decimal.NewFromInt(qty)
	out := pos

	if pos.Quantity >= 0 {
		curr := decimal.NewFromInt(pos.Quantity)
		if pos.AveragePrice == nil || pos.Quantity == 0 {
			avg := p
			out.AveragePrice = &avg
		} else {
			weighted := pos.AveragePrice.Mul(curr).Add(p.Mul(q)).Div(curr.Add(q))
			out.AveragePrice = &weighted
		}
		out.Quantity = pos.Quantity + qty
		return out
	}

	// Covering a short.
	cover := min64(qty, -pos.Quantity)
	if pos.AveragePrice != nil && cover > 0 {
		c := decimal.NewFromInt(cover)
		out.RealizedPnL = pos.RealizedPnL.Add(pos.AveragePrice.Sub(p).Mul(c))
	}
	out.Quantity = pos.Quantity + cover
	if out.Quantity == 0 {
		out.AveragePrice = nil
	}
	if remaining := qty - cover; remaining > 0 {
		avg := p
		out.AveragePrice = &avg
		out.Quantity = remaining
	}
	return out
}

// ApplySell is the mirror of ApplyBuy for a sell of qty at price p.
func ApplySell(pos domain.Position, qty int64, p decimal.Decimal) domain.Position {
	q := decimal.NewFromInt(qty)
	out := pos

	if pos.Quantity <= 0 {
		curr := decimal.NewFromInt(-pos.Quantity)
		if pos.AveragePrice == nil || pos.Quantity == 0 {
			avg := p
			out.AveragePrice = &avg
		} else {
			weighted := pos.AveragePrice.Mul(curr).Add(p.Mul(q)).Div(curr.Add(q))
			out.AveragePrice = &weighted
		}
		out.Quantity = pos.Quantity - qty
		return out
	}

	// Reducing a long.
	sell := min64(qty, pos.Quantity)
	if pos.AveragePrice != nil && sell > 0 {
		s := decimal.NewFromInt(sell)
		out.RealizedPnL = pos.RealizedPnL.Add(p.Sub(*pos.AveragePrice).Mul(s))
	}
	out.Quantity = pos.Quantity - sell
	if out.Quantity == 0 {
		out.AveragePrice = nil
	}
	if remaining := qty - sell; remaining > 0 {
		avg := p
		out.AveragePrice = &avg
		out.Quantity = -remaining
	}
	return out
}

// Apply dispatches to ApplyBuy or ApplySell based on side.
func Apply(pos domain.Position, side domain.Side, qty int64, p decimal.Decimal) domain.Position {
	if side == domain.Buy {
		return ApplyBuy(pos, qty, p)
	}
	return ApplySell(pos, qty, p)
}

// Unrealized computes the read-side mark-to-market PnL at the given last
// trade price. It is never stored.
func Unrealized(pos domain.Position, last decimal.Decimal) decimal.Decimal {
	if pos.Quantity == 0 || pos.AveragePrice == nil {
		return decimal.Zero
	}
	qty := decimal.NewFromInt(pos.Quantity)
	return last.Sub(*pos.AveragePrice).Mul(qty)
}

// Settle converts a non-zero position into realized PnL at the settlement
// price and flattens it.
func Settle(pos domain.Position, settlementPrice decimal.Decimal) domain.Position {
	if pos.Quantity == 0 || pos.AveragePrice == nil {
		return pos
	}
	out := pos
	qty := decimal.NewFromInt(pos.Quantity)
	if pos.Quantity > 0 {
		out.RealizedPnL = pos.RealizedPnL.Add(settlementPrice.Sub(*pos.AveragePrice).Mul(qty))
	} else {
		out.RealizedPnL = pos.RealizedPnL.Add(pos.AveragePrice.Sub(settlementPrice).Mul(qty.Neg()))
	}
	out.Quantity = 0
	out.AveragePrice = nil
	return out
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
