package exchange

import (
	"context"
	"testing"

	"fenrir/internal/domain"
	"fenrir/internal/metrics"
	"fenrir/internal/notify"
	"fenrir/internal/store/memory"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	trades []notify.TradeEvent
	books  []notify.BookUpdateEvent
	cancels []notify.CancelEvent
}

func (r *recordingNotifier) BookUpdate(e notify.BookUpdateEvent) { r.books = append(r.books, e) }
func (r *recordingNotifier) Trade(e notify.TradeEvent)           { r.trades = append(r.trades, e) }
func (r *recordingNotifier) Cancel(e notify.CancelEvent)         { r.cancels = append(r.cancels, e) }

func newTestManager(t *testing.T, symbols ...domain.Symbol) (*Manager, *memory.Store, *recordingNotifier) {
	t.Helper()
	st := memory.New(symbols...)
	notifier := &recordingNotifier{}
	mgr := New(st, notifier, metrics.Noop(), zerolog.Nop())
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr, st, notifier
}

func testSymbol(code string) domain.Symbol {
	return domain.Symbol{ID: uuid.New(), Code: code, Category: domain.Equity, TickSize: decimal.NewFromFloat(0.01)}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPlaceAndMatchRestsLimitOrderWhenNothingCrosses(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, _, notifier := newTestManager(t, sym)
	ctx := context.Background()
	team := uuid.New()

	price := dec("100")
	res, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: team, Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 10, Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Pending, res.Order.Status)
	assert.Empty(t, res.Trades)
	assert.NotEmpty(t, notifier.books)

	bids, asks, err := mgr.Depth(ctx, "AAPL", 5)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.EqualValues(t, 10, bids[0].Quantity)
	assert.Empty(t, asks)
}

func TestPlaceAndMatchExecutesCrossingLimitOrders(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, _, notifier := newTestManager(t, sym)
	ctx := context.Background()
	maker, taker := uuid.New(), uuid.New()

	makerPrice := dec("100")
	_, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: maker, Symbol: "AAPL", Side: domain.Sell, OrderType: domain.Limit, Quantity: 10, Price: &makerPrice,
	})
	require.NoError(t, err)

	takerPrice := dec("101")
	res, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: taker, Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 4, Price: &takerPrice,
	})
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	assert.EqualValues(t, 4, res.Trades[0].Quantity)
	assert.True(t, res.Trades[0].Price.Equal(makerPrice), "trade executes at the resting order's price")
	assert.Equal(t, domain.Filled, res.Order.Status)
	require.Len(t, notifier.trades, 1)
}

func TestPlaceAndMatchRejectsUnknownSymbol(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()
	price := dec("10")

	_, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: uuid.New(), Symbol: "NOPE", Side: domain.Buy, OrderType: domain.Limit, Quantity: 1, Price: &price,
	})
	require.Error(t, err)
	var exchErr *Error
	require.ErrorAs(t, err, &exchErr)
	assert.Equal(t, KindUnknownSymbol, exchErr.Kind)
}

func TestPlaceAndMatchRejectsTradingOnHaltedSymbol(t *testing.T) {
	sym := testSymbol("AAPL")
	sym.TradingHalted = true
	mgr, _, _ := newTestManager(t, sym)
	ctx := context.Background()
	price := dec("10")

	_, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: uuid.New(), Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 1, Price: &price,
	})
	require.Error(t, err)
	var exchErr *Error
	require.ErrorAs(t, err, &exchErr)
	assert.Equal(t, KindSymbolNotTradable, exchErr.Kind)
}

func TestPlaceAndMatchUpdatesPositionsOnBothSidesOfATrade(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, st, _ := newTestManager(t, sym)
	ctx := context.Background()
	buyer, seller := uuid.New(), uuid.New()

	p := dec("50")
	_, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: seller, Symbol: "AAPL", Side: domain.Sell, OrderType: domain.Limit, Quantity: 10, Price: &p,
	})
	require.NoError(t, err)
	_, err = mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: buyer, Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Market, Quantity: 10,
	})
	require.NoError(t, err)

	buyerPos, err := st.GetPosition(ctx, buyer, sym.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, buyerPos.Quantity)

	sellerPos, err := st.GetPosition(ctx, seller, sym.ID)
	require.NoError(t, err)
	assert.EqualValues(t, -10, sellerPos.Quantity)
}

func TestCancelOrderRemovesRestingQuantity(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, _, notifier := newTestManager(t, sym)
	ctx := context.Background()
	team := uuid.New()

	p := dec("100")
	res, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: team, Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 10, Price: &p,
	})
	require.NoError(t, err)

	require.NoError(t, mgr.CancelOrder(ctx, "AAPL", res.Order.ID))
	require.Len(t, notifier.cancels, 1)

	bids, _, err := mgr.Depth(ctx, "AAPL", 5)
	require.NoError(t, err)
	assert.Empty(t, bids)
}

func TestCancelOrderRejectsAlreadyTerminalOrder(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, _, _ := newTestManager(t, sym)
	ctx := context.Background()
	maker, taker := uuid.New(), uuid.New()

	p := dec("100")
	res, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: maker, Symbol: "AAPL", Side: domain.Sell, OrderType: domain.Limit, Quantity: 5, Price: &p,
	})
	require.NoError(t, err)
	_, err = mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: taker, Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Market, Quantity: 5,
	})
	require.NoError(t, err)

	err = mgr.CancelOrder(ctx, "AAPL", res.Order.ID)
	require.Error(t, err)
	var exchErr *Error
	require.ErrorAs(t, err, &exchErr)
	assert.Equal(t, KindInvalidOrder, exchErr.Kind)
}

func TestSettleFlattensPositionsAndHaltsSymbol(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, st, _ := newTestManager(t, sym)
	ctx := context.Background()
	buyer, seller := uuid.New(), uuid.New()

	p := dec("100")
	_, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: seller, Symbol: "AAPL", Side: domain.Sell, OrderType: domain.Limit, Quantity: 10, Price: &p,
	})
	require.NoError(t, err)
	_, err = mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: buyer, Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Market, Quantity: 10,
	})
	require.NoError(t, err)

	require.NoError(t, mgr.Settle(ctx, "AAPL", dec("110")))

	buyerPos, err := st.GetPosition(ctx, buyer, sym.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, buyerPos.Quantity)
	assert.True(t, buyerPos.RealizedPnL.Equal(dec("100")), "got %s", buyerPos.RealizedPnL)

	_, err = mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: buyer, Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 1, Price: &p,
	})
	require.Error(t, err)
	var exchErr *Error
	require.ErrorAs(t, err, &exchErr)
	assert.Equal(t, KindSymbolNotTradable, exchErr.Kind)
}

// TestTradeSymbolIDAlwaysMatchesBothOrdersSymbol pins down which order's
// symbol a trade inherits: since both legs are always validated against the
// same symbol before they can match, buyer and seller order rows share one
// symbol_id and the trade's is unambiguous.
func TestTradeSymbolIDAlwaysMatchesBothOrdersSymbol(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, st, _ := newTestManager(t, sym)
	ctx := context.Background()
	maker, taker := uuid.New(), uuid.New()

	p := dec("100")
	_, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: maker, Symbol: "AAPL", Side: domain.Sell, OrderType: domain.Limit, Quantity: 5, Price: &p,
	})
	require.NoError(t, err)
	res, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: taker, Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Market, Quantity: 5,
	})
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	buyOrder, err := st.GetOrder(ctx, res.Trades[0].BuyerOrderID)
	require.NoError(t, err)
	sellOrder, err := st.GetOrder(ctx, res.Trades[0].SellerOrderID)
	require.NoError(t, err)
	assert.Equal(t, buyOrder.SymbolID, sellOrder.SymbolID)
	assert.Equal(t, sym.ID, res.Trades[0].SymbolID)
}

func TestPauseRejectsNewOrdersAndStartResumesThem(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, _, _ := newTestManager(t, sym)
	ctx := context.Background()
	p := dec("100")

	require.NoError(t, mgr.Pause(ctx, "AAPL"))

	_, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: uuid.New(), Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 1, Price: &p,
	})
	require.Error(t, err)
	var exchErr *Error
	require.ErrorAs(t, err, &exchErr)
	assert.Equal(t, KindSymbolNotTradable, exchErr.Kind)

	require.NoError(t, mgr.Start(ctx, "AAPL"))
	_, err = mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: uuid.New(), Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 1, Price: &p,
	})
	require.NoError(t, err)
}

// TestPauseSurvivesBookReset checks that the halt Pause applies is durable:
// dropping and rebuilding the actor (as ResetBook does after a durable
// failure, or as a process restart would) must not silently un-halt the
// symbol.
func TestPauseSurvivesBookReset(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, st, _ := newTestManager(t, sym)
	ctx := context.Background()

	require.NoError(t, mgr.Pause(ctx, "AAPL"))
	mgr.ResetBook("AAPL")

	stored, err := st.GetSymbol(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, stored.TradingHalted)

	p := dec("100")
	_, err = mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: uuid.New(), Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 1, Price: &p,
	})
	require.Error(t, err)
	var exchErr *Error
	require.ErrorAs(t, err, &exchErr)
	assert.Equal(t, KindSymbolNotTradable, exchErr.Kind)
}

// TestSettleHaltSurvivesBookReset is the settlement counterpart of
// TestPauseSurvivesBookReset: without persisting settlement_active through
// store.UpdateSymbol, ResetBook would re-read the pre-settlement row and
// quietly let new orders back in.
func TestSettleHaltSurvivesBookReset(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, st, _ := newTestManager(t, sym)
	ctx := context.Background()

	require.NoError(t, mgr.Settle(ctx, "AAPL", dec("110")))
	mgr.ResetBook("AAPL")

	stored, err := st.GetSymbol(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, stored.SettlementActive)
	require.NotNil(t, stored.SettlementPrice)
	assert.True(t, stored.SettlementPrice.Equal(dec("110")))

	p := dec("100")
	_, err = mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: uuid.New(), Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 1, Price: &p,
	})
	require.Error(t, err)
	var exchErr *Error
	require.ErrorAs(t, err, &exchErr)
	assert.Equal(t, KindSymbolNotTradable, exchErr.Kind)
}

// TestDepthRebuildsIdenticallyAfterBookReset drops a symbol's in-memory book
// with ResetBook and confirms the next Depth call, which rebuilds the actor
// from the store's persisted resting orders, reports the same book as before
// the reset.
func TestDepthRebuildsIdenticallyAfterBookReset(t *testing.T) {
	sym := testSymbol("AAPL")
	mgr, _, _ := newTestManager(t, sym)
	ctx := context.Background()

	buyPrice := dec("101.00")
	_, err := mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: uuid.New(), Symbol: "AAPL", Side: domain.Buy, OrderType: domain.Limit, Quantity: 100, Price: &buyPrice,
	})
	require.NoError(t, err)
	sellPrice := dec("100.00")
	_, err = mgr.PlaceAndMatch(ctx, PlaceOrderRequest{
		TeamID: uuid.New(), Symbol: "AAPL", Side: domain.Sell, OrderType: domain.Limit, Quantity: 80, Price: &sellPrice,
	})
	require.NoError(t, err)

	beforeBids, beforeAsks, err := mgr.Depth(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, beforeBids, 1)
	assert.EqualValues(t, 20, beforeBids[0].Quantity)
	assert.Empty(t, beforeAsks)

	mgr.ResetBook("AAPL")

	afterBids, afterAsks, err := mgr.Depth(ctx, "AAPL", 10)
	require.NoError(t, err)

	assert.Equal(t, beforeBids, afterBids)
	assert.Equal(t, beforeAsks, afterAsks)
}
