// Package price converts between external decimal prices and the integer
// tick units used everywhere inside the matching engine.
package price

import (
	"math"

	"fenrir/internal/domain"

	"github.com/shopspring/decimal"
)

// Scale is the number of tick units per unit of external price, giving six
// decimal places of precision.
const Scale = 1_000_000

// Ticks is an integer price in tick units. All matching comparisons operate
// on Ticks; no floating-point value ever reaches the hot path.
type Ticks int64

// MarketTick is the sentinel carried by market orders. It compares as
// "crosses everything" on whichever side it is placed: the matching loop
// never compares MarketTick against a resting price, since market orders
// never rest and the book never holds one.
const MarketTick Ticks = math.MaxInt64

var scaleDec = decimal.NewFromInt(Scale)

// ToTicks rounds a decimal price to the nearest tick, ties to even. Rounding
// happens once, at the boundary; everything downstream is integer arithmetic.
func ToTicks(p decimal.Decimal) Ticks {
	return Ticks(p.Mul(scaleDec).RoundBank(0).IntPart())
}

// FromTicks converts an internal tick price back to an external decimal,
// e.g. for trade prices reported to the façade.
func FromTicks(t Ticks) decimal.Decimal {
	return decimal.NewFromInt(int64(t)).DivRound(scaleDec, 6)
}

// Satisfies reports whether a resting level at restingPrice satisfies an
// incoming limit order's price for the given side: a buy is satisfied by any
// ask at or below its limit, a sell by any bid at or above its limit.
func Satisfies(side domain.Side, limit, restingPrice Ticks) bool {
	if side == domain.Buy {
		return restingPrice <= limit
	}
	return restingPrice >= limit
}

// Crosses reports whether a bid at bidPrice and an ask at askPrice cross.
func Crosses(bidPrice, askPrice Ticks) bool {
	return bidPrice >= askPrice
}
