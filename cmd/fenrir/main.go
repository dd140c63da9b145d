// Command fenrir starts the exchange core as a long-running service: it
// wires a durable store, market-data notifiers and metrics behind
// internal/exchange.Manager, warms every configured symbol, and serves
// websocket market data until it receives SIGTERM/SIGINT.
//
// Order entry and any REST/gRPC façade live outside this binary — this
// process only proves the matching core and its storage/notification/
// metrics wiring run end to end.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fenrir/internal/domain"
	"fenrir/internal/exchange"
	"fenrir/internal/metrics"
	"fenrir/internal/notify"
	notifylog "fenrir/internal/notify/log"
	"fenrir/internal/notify/wsfeed"
	"fenrir/internal/store"
	"fenrir/internal/store/memory"
	"fenrir/internal/store/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	logger := log.Logger

	st, err := openStore(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}

	hub := wsfeed.New()
	notifier := notify.Multi{notifylog.New(logger), hub}
	reg := metrics.New(prometheus.NewRegistry())

	mgr := exchange.New(st, notifier, reg, logger)
	defer mgr.Close()

	for _, code := range configuredSymbols() {
		if err := mgr.EnsureLoaded(ctx, code); err != nil {
			logger.Error().Err(err).Str("symbol", code).Msg("warm symbol")
		}
	}

	addr := envOr("FENRIR_WS_ADDR", "0.0.0.0:9090")
	srv := &http.Server{Addr: addr, Handler: hub}
	go func() {
		logger.Info().Str("addr", addr).Msg("serving market data feed")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("websocket feed stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("websocket feed shutdown")
	}
}

// openStore connects to Postgres when FENRIR_DATABASE_URL is set, otherwise
// falls back to an in-memory store seeded with a handful of demo symbols so
// the binary runs standalone.
func openStore(logger zerolog.Logger) (store.Store, error) {
	if dsn := os.Getenv("FENRIR_DATABASE_URL"); dsn != "" {
		logger.Info().Msg("connecting to postgres")
		return postgres.Open(dsn)
	}
	logger.Warn().Msg("FENRIR_DATABASE_URL not set, using in-memory store with demo symbols")
	return memory.New(demoSymbols()...), nil
}

func demoSymbols() []domain.Symbol {
	return []domain.Symbol{
		{Code: "AAPL", Name: "Apple Inc.", Category: domain.Equity, TickSize: decimal.NewFromFloat(0.01), LotSize: 1},
		{Code: "TSLA", Name: "Tesla Inc.", Category: domain.Equity, TickSize: decimal.NewFromFloat(0.01), LotSize: 1},
	}
}

// configuredSymbols returns the symbols to warm at startup from
// FENRIR_SYMBOLS (comma-separated), defaulting to the demo set's codes when
// unset so a memory-backed run has something to trade immediately.
func configuredSymbols() []string {
	raw := os.Getenv("FENRIR_SYMBOLS")
	if raw == "" {
		return []string{"AAPL", "TSLA"}
	}
	var codes []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
