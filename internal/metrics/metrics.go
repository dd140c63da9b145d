// Package metrics exposes the exchange's prometheus collectors. Wiring an
// HTTP handler to serve them is left to the caller: register Registry
// against your own promhttp handler.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry groups every collector the exchange registers, so cmd/fenrir can
// wire them into whatever registerer it owns without each package reaching
// for the global default.
type Registry struct {
	OrdersPlaced    *prometheus.CounterVec
	OrdersCancelled *prometheus.CounterVec
	TradesTotal     *prometheus.CounterVec
	MatchDuration   *prometheus.HistogramVec
	BookDepth       *prometheus.GaugeVec
}

// New constructs a Registry and registers every collector with reg.
func New(reg prometheus.Registerer) *Registry {
	m := &Registry{
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fenrir",
			Name:      "orders_placed_total",
			Help:      "Orders accepted by the matching engine, by symbol and side.",
		}, []string{"symbol", "side"}),
		OrdersCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fenrir",
			Name:      "orders_cancelled_total",
			Help:      "Orders cancelled, by symbol and reason.",
		}, []string{"symbol", "reason"}),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fenrir",
			Name:      "trades_total",
			Help:      "Trades executed, by symbol.",
		}, []string{"symbol"}),
		MatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fenrir",
			Name:      "match_duration_seconds",
			Help:      "Time spent inside one PlaceAndMatch call, by symbol.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"symbol"}),
		BookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fenrir",
			Name:      "book_depth",
			Help:      "Resting quantity at the best price level, by symbol and side.",
		}, []string{"symbol", "side"}),
	}
	reg.MustRegister(m.OrdersPlaced, m.OrdersCancelled, m.TradesTotal, m.MatchDuration, m.BookDepth)
	return m
}

// Noop returns a Registry whose collectors are registered against a private
// registry, for tests that don't want to touch prometheus.DefaultRegisterer.
func Noop() *Registry {
	return New(prometheus.NewRegistry())
}
