// Package exchange is the manager tying the order book, the durable store,
// position accounting and market-data notification together behind one
// per-symbol actor.
package exchange

import (
	"fmt"
)

// Kind classifies an Error for callers that branch on it (an HTTP layer
// mapping to status codes, for instance) without parsing its message.
type Kind string

const (
	KindUnknownSymbol     Kind = "unknown_symbol"
	KindSymbolNotTradable Kind = "symbol_not_tradable"
	KindInvalidOrder      Kind = "invalid_order"
	KindOrderNotFound     Kind = "order_not_found"
	KindDurableConflict   Kind = "durable_conflict"
)

// Error is the exchange package's error type. Kind lets callers branch with
// errors.As; Msg carries the human-readable detail.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exchange: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("exchange: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches by Kind, so errors.Is(err, ErrUnknownSymbol) works against a
// wrapped *Error without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Sentinel values for errors.Is; their Msg and Err fields are empty, so
// compare on Kind only via Error.Is.
var (
	ErrUnknownSymbol     = &Error{Kind: KindUnknownSymbol}
	ErrSymbolNotTradable = &Error{Kind: KindSymbolNotTradable}
	ErrInvalidOrder      = &Error{Kind: KindInvalidOrder}
	ErrOrderNotFound     = &Error{Kind: KindOrderNotFound}
	ErrDurableConflict   = &Error{Kind: KindDurableConflict}
)

// FatalInvariantViolation is panicked when the manager observes a state its
// invariants say is impossible (e.g. a negative remaining quantity, or a
// trade between two orders of the same team). The per-symbol actor recovers it, logs the full detail, and
// repanics so the process crashes loudly rather than continue matching
// against a book it can no longer trust.
type FatalInvariantViolation struct {
	Symbol string
	Detail string
}

func (f FatalInvariantViolation) Error() string {
	return fmt.Sprintf("fatal invariant violation on %s: %s", f.Symbol, f.Detail)
}

// raiseInvariant panics with a FatalInvariantViolation; callers use it for
// conditions that should be structurally impossible.
func raiseInvariant(symbol, detail string) {
	panic(FatalInvariantViolation{Symbol: symbol, Detail: detail})
}
