// Package log is a notify.Notifier that writes every event through zerolog.
package log

import (
	"fenrir/internal/notify"

	"github.com/rs/zerolog"
)

// Notifier logs book updates at debug level and trades and cancellations at
// info level.
type Notifier struct {
	logger zerolog.Logger
}

// New wraps logger as a notify.Notifier.
func New(logger zerolog.Logger) *Notifier {
	return &Notifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (n *Notifier) BookUpdate(e notify.BookUpdateEvent) {
	n.logger.Debug().
		Str("symbol", e.Symbol).
		Int("bid_levels", len(e.Bids)).
		Int("ask_levels", len(e.Asks)).
		Msg("book update")
}

func (n *Notifier) Trade(e notify.TradeEvent) {
	n.logger.Info().
		Str("symbol", e.Symbol).
		Str("trade_id", e.Trade.ID.String()).
		Int64("quantity", e.Trade.Quantity).
		Str("price", e.Trade.Price.String()).
		Msg("trade executed")
}

func (n *Notifier) Cancel(e notify.CancelEvent) {
	n.logger.Info().
		Str("symbol", e.Symbol).
		Str("order_id", e.OrderID.String()).
		Int64("quantity", e.Quantity).
		Str("reason", e.Reason).
		Msg("order cancelled")
}
