package exchange

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fenrir/internal/book"
	"fenrir/internal/domain"
	"fenrir/internal/metrics"
	"fenrir/internal/notify"
	"fenrir/internal/position"
	"fenrir/internal/price"
	"fenrir/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	tomb "gopkg.in/tomb.v2"
)

// PlaceOrderRequest is the validated input to Manager.PlaceAndMatch.
type PlaceOrderRequest struct {
	TeamID    uuid.UUID
	Symbol    string
	Side      domain.Side
	OrderType domain.OrderType
	Quantity  int64
	Price     *decimal.Decimal // required iff OrderType == domain.Limit
}

// PlaceOrderResult is everything the caller needs after an order has been
// accepted, matched and persisted.
type PlaceOrderResult struct {
	Order  domain.Order
	Trades []domain.Trade
}

// Manager owns one symbolActor per tradable symbol and is the sole entry
// point callers use to place orders, cancel them, and read book state. Each
// symbol gets its own mailbox and its own single-threaded engine, so one
// symbol's matching never blocks another's.
type Manager struct {
	store    store.Store
	notifier notify.Notifier
	metrics  *metrics.Registry
	log      zerolog.Logger

	mu      sync.Mutex
	actors  map[string]*symbolActor
	t       tomb.Tomb
}

// New constructs a Manager. The returned Manager's actors are started lazily,
// one per symbol, the first time that symbol is referenced.
func New(st store.Store, notifier notify.Notifier, reg *metrics.Registry, logger zerolog.Logger) *Manager {
	return &Manager{
		store:    st,
		notifier: notifier,
		metrics:  reg,
		log:      logger.With().Str("component", "exchange").Logger(),
		actors:   make(map[string]*symbolActor),
	}
}

// Close stops every symbol actor and waits for them to exit.
func (m *Manager) Close() error {
	m.t.Kill(nil)
	return m.t.Wait()
}

// actorFor returns the actor for code, loading its book from the store and
// starting its mailbox loop on first use.
func (m *Manager) actorFor(ctx context.Context, code string) (*symbolActor, error) {
	m.mu.Lock()
	a, ok := m.actors[code]
	m.mu.Unlock()
	if ok {
		return a, nil
	}

	sym, err := m.store.GetSymbol(ctx, code)
	if err != nil {
		return nil, newErr(KindUnknownSymbol, code, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.actors[code]; ok {
		return a, nil
	}
	a = newSymbolActor(sym, m.store, m.notifier, m.metrics, m.log)
	a.invalidate = func() { m.ResetBook(code) }
	if err := a.loadResting(ctx); err != nil {
		return nil, fmt.Errorf("exchange: load resting orders for %s: %w", code, err)
	}
	m.t.Go(func() error {
		a.run(m.t.Dying())
		return nil
	})
	m.actors[code] = a
	return a, nil
}

// PlaceAndMatch validates req, runs it through the symbol's matching engine
// and persists the resulting order, trades and position updates in one
// transaction.
func (m *Manager) PlaceAndMatch(ctx context.Context, req PlaceOrderRequest) (PlaceOrderResult, error) {
	if req.Quantity <= 0 {
		return PlaceOrderResult{}, newErr(KindInvalidOrder, "quantity must be positive", nil)
	}
	if req.OrderType == domain.Limit && req.Price == nil {
		return PlaceOrderResult{}, newErr(KindInvalidOrder, "limit order requires a price", nil)
	}

	a, err := m.actorFor(ctx, req.Symbol)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	reply := make(chan actorResult, 1)
	a.mailbox <- actorCommand{kind: cmdPlace, ctx: ctx, place: &req, reply: reply}
	res := <-reply
	if res.err != nil {
		return PlaceOrderResult{}, res.err
	}
	return res.placed, nil
}

// CancelOrder removes a resting order from its book and marks it cancelled.
func (m *Manager) CancelOrder(ctx context.Context, symbol string, orderID uuid.UUID) error {
	a, err := m.actorFor(ctx, symbol)
	if err != nil {
		return err
	}
	reply := make(chan actorResult, 1)
	a.mailbox <- actorCommand{kind: cmdCancel, ctx: ctx, cancelID: orderID, reply: reply}
	res := <-reply
	return res.err
}

// Depth returns up to n resting price levels per side for symbol, converted
// back to decimal prices at the boundary.
func (m *Manager) Depth(ctx context.Context, symbol string, n int) (bids, asks []notify.DepthEntry, err error) {
	a, err := m.actorFor(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}
	reply := make(chan actorResult, 1)
	a.mailbox <- actorCommand{kind: cmdDepth, ctx: ctx, depthN: n, reply: reply}
	res := <-reply
	return res.bids, res.asks, res.err
}

// Settle marks symbol halted for trading and settles every open position at
// settlementPrice, flattening quantity into realized PnL.
func (m *Manager) Settle(ctx context.Context, symbol string, settlementPrice decimal.Decimal) error {
	a, err := m.actorFor(ctx, symbol)
	if err != nil {
		return err
	}
	reply := make(chan actorResult, 1)
	a.mailbox <- actorCommand{kind: cmdSettle, ctx: ctx, settlePrice: settlementPrice, reply: reply}
	res := <-reply
	return res.err
}

// Pause halts trading on symbol without settling any position, independent
// of settlement. Existing resting orders stay in the book; only new orders
// are rejected until Start is called.
func (m *Manager) Pause(ctx context.Context, symbol string) error {
	a, err := m.actorFor(ctx, symbol)
	if err != nil {
		return err
	}
	reply := make(chan actorResult, 1)
	a.mailbox <- actorCommand{kind: cmdPause, ctx: ctx, reply: reply}
	res := <-reply
	return res.err
}

// Start resumes trading on a symbol previously paused with Pause. It has no
// effect on a symbol halted by settlement: Settle's halt is permanent.
func (m *Manager) Start(ctx context.Context, symbol string) error {
	a, err := m.actorFor(ctx, symbol)
	if err != nil {
		return err
	}
	reply := make(chan actorResult, 1)
	a.mailbox <- actorCommand{kind: cmdStart, ctx: ctx, reply: reply}
	res := <-reply
	return res.err
}

// EnsureLoaded warms the symbol's actor and in-memory book without placing
// an order. A no-op if the actor is already running.
func (m *Manager) EnsureLoaded(ctx context.Context, symbol string) error {
	_, err := m.actorFor(ctx, symbol)
	return err
}

// ResetBook discards the symbol's in-memory book and actor; the next
// operation against symbol rebuilds it from the durable store. Used after a
// durable write fails mid-flight, when the in-memory book can no longer be
// trusted to match what was persisted.
func (m *Manager) ResetBook(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.actors[symbol]
	if !ok {
		return
	}
	close(a.stop)
	delete(m.actors, symbol)
}

// commandKind enumerates the operations a symbolActor's mailbox accepts.
type commandKind int

const (
	cmdPlace commandKind = iota
	cmdCancel
	cmdDepth
	cmdSettle
	cmdPause
	cmdStart
)

type actorCommand struct {
	kind        commandKind
	ctx         context.Context
	place       *PlaceOrderRequest
	cancelID    uuid.UUID
	depthN      int
	settlePrice decimal.Decimal
	reply       chan actorResult
}

type actorResult struct {
	placed PlaceOrderResult
	bids   []notify.DepthEntry
	asks   []notify.DepthEntry
	err    error
}

// symbolActor owns the in-memory book.Engine for one symbol and processes
// its mailbox sequentially, so the engine itself never needs its own
// locking: a single goroutine is the sole owner of its mutable state.
type symbolActor struct {
	symbol   domain.Symbol
	engine   *book.Engine
	store    store.Store
	notifier notify.Notifier
	metrics  *metrics.Registry
	log      zerolog.Logger
	mailbox  chan actorCommand
	stop     chan struct{}

	// invalidate removes this actor from the owning Manager, set by
	// actorFor once the actor is registered. Called when a durable write
	// fails mid-flight, so the in-memory book is never trusted past a
	// persistence failure; the next call rebuilds a fresh actor from the
	// store.
	invalidate func()
}

func newSymbolActor(sym domain.Symbol, st store.Store, notifier notify.Notifier, reg *metrics.Registry, logger zerolog.Logger) *symbolActor {
	return &symbolActor{
		symbol:   sym,
		engine:   book.New(),
		store:    st,
		notifier: notifier,
		metrics:  reg,
		log:      logger.With().Str("symbol", sym.Code).Logger(),
		mailbox:  make(chan actorCommand, 64),
		stop:     make(chan struct{}),
	}
}

// loadResting rebuilds the in-memory book from persisted pending/partial
// orders, in (created_at, id) order so price-time priority is preserved
// across a restart.
func (a *symbolActor) loadResting(ctx context.Context) error {
	orders, err := a.store.OpenOrders(ctx, a.symbol.ID, nil)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o.OrderType != domain.Limit {
			continue
		}
		entry := &book.Entry{
			OrderID:   o.ID,
			TeamID:    o.TeamID,
			Side:      o.Side,
			Market:    false,
			Price:     price.ToTicks(*o.Price),
			Remaining: o.Remaining(),
		}
		if entry.Remaining <= 0 {
			continue
		}
		if err := a.engine.AddResting(entry); err != nil {
			return fmt.Errorf("load resting order %s: %w", o.ID, err)
		}
	}
	return nil
}

// run drains the mailbox until done or a.stop fires, so Manager.Close can
// stop every actor, and ResetBook a single one, without leaking goroutines.
func (a *symbolActor) run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-a.stop:
			a.drain()
			return
		case cmd := <-a.mailbox:
			a.handle(cmd)
		}
	}
}

// drain replies to every command left in the mailbox once this actor has
// been invalidated, so a caller racing with ResetBook never blocks forever
// waiting on a reply that would otherwise never come.
func (a *symbolActor) drain() {
	for {
		select {
		case cmd := <-a.mailbox:
			cmd.reply <- actorResult{err: newErr(KindDurableConflict, a.symbol.Code, nil)}
		default:
			return
		}
	}
}

// handle recovers a FatalInvariantViolation panicked out of place/cancel/
// settle, logs it, and re-panics so the process actually crashes instead of
// continuing to match orders against a book it can no longer trust.
func (a *symbolActor) handle(cmd actorCommand) {
	defer func() {
		if r := recover(); r != nil {
			if fiv, ok := r.(FatalInvariantViolation); ok {
				a.log.Error().Str("detail", fiv.Detail).Msg("fatal invariant violation, aborting")
			}
			panic(r)
		}
	}()
	switch cmd.kind {
	case cmdPlace:
		res := a.place(cmd.ctx, *cmd.place)
		cmd.reply <- res
	case cmdCancel:
		err := a.cancel(cmd.ctx, cmd.cancelID)
		cmd.reply <- actorResult{err: err}
	case cmdDepth:
		bids, asks := a.engine.Depth(cmd.depthN)
		cmd.reply <- actorResult{bids: toDepthEntries(bids), asks: toDepthEntries(asks)}
	case cmdSettle:
		err := a.settle(cmd.ctx, cmd.settlePrice)
		cmd.reply <- actorResult{err: err}
	case cmdPause:
		err := a.setHalt(cmd.ctx, true)
		cmd.reply <- actorResult{err: err}
	case cmdStart:
		err := a.setHalt(cmd.ctx, false)
		cmd.reply <- actorResult{err: err}
	}
}

func toDepthEntries(levels []book.DepthLevel) []notify.DepthEntry {
	out := make([]notify.DepthEntry, len(levels))
	for i, l := range levels {
		out[i] = notify.DepthEntry{Price: price.FromTicks(l.Price), Quantity: l.Quantity}
	}
	return out
}

// place runs the full order lifecycle: build the engine entry, run it
// through AddOrder, translate the resulting trades and cancels back to
// domain rows, apply position accounting, persist everything in one
// transaction, and finally publish market-data events.
func (a *symbolActor) place(ctx context.Context, req PlaceOrderRequest) actorResult {
	if !a.symbol.Tradable() {
		return actorResult{err: newErr(KindSymbolNotTradable, a.symbol.Code, nil)}
	}

	start := time.Now()
	now := start

	order := domain.Order{
		ID:        uuid.New(),
		TeamID:    req.TeamID,
		SymbolID:  a.symbol.ID,
		Side:      req.Side,
		OrderType: req.OrderType,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Status:    domain.Pending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	entry := &book.Entry{
		OrderID:   order.ID,
		TeamID:    order.TeamID,
		Side:      order.Side,
		Market:    order.OrderType == domain.Market,
		Remaining: order.Quantity,
	}
	if entry.Market {
		entry.Price = price.MarketTick
	} else {
		entry.Price = price.ToTicks(*req.Price)
	}

	engineTrades, engineCancels := a.engine.AddOrder(entry)

	var tradedQty int64
	for _, t := range engineTrades {
		tradedQty += t.Quantity
	}
	order.FilledQuantity = tradedQty

	if order.OrderType == domain.Market {
		// A market order never rests: whatever self-trade prevention
		// consumed from entry.Remaining, and whatever liquidity simply
		// wasn't there to sweep, is all discarded here as cancelled.
		order.CancelledQuantity = order.Quantity - tradedQty
		if tradedQty > 0 {
			order.Status = domain.Filled
		} else {
			order.Status = domain.Cancelled
		}
	} else if entry.Remaining == 0 {
		order.Status = domain.Filled
	} else if tradedQty > 0 {
		order.Status = domain.Partial
	} else {
		order.Status = domain.Pending
	}

	if order.FilledQuantity+order.CancelledQuantity > order.Quantity {
		raiseInvariant(a.symbol.Code, fmt.Sprintf("order %s: filled+cancelled exceeds quantity", order.ID))
	}

	trades := make([]domain.Trade, len(engineTrades))
	for i, t := range engineTrades {
		trades[i] = domain.Trade{
			ID:            uuid.New(),
			BuyerOrderID:  t.BuyerOrderID,
			SellerOrderID: t.SellerOrderID,
			SymbolID:      a.symbol.ID,
			Quantity:      t.Quantity,
			Price:         price.FromTicks(t.Price),
			ExecutedAt:    now,
		}
	}

	err := a.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		for _, c := range engineCancels {
			if err := a.applyCancel(ctx, tx, c, now); err != nil {
				return err
			}
		}
		for _, t := range trades {
			if err := tx.InsertTrade(ctx, t); err != nil {
				return err
			}
			// The incoming order was inserted with its fills already counted;
			// only the resting side's row still needs this fill applied.
			restingID := t.SellerOrderID
			if order.Side == domain.Sell {
				restingID = t.BuyerOrderID
			}
			if err := a.applyFillToOrder(ctx, tx, restingID, t.Quantity, now); err != nil {
				return err
			}
			if err := a.applyTradeToPosition(ctx, tx, order.SymbolID, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// The durable write is the source of truth; once it fails mid-flight
		// the in-memory book no longer reflects it, so this actor is
		// discarded rather than left to keep matching against stale state.
		a.invalidate()
		if isConflict(err) {
			return actorResult{err: newErr(KindDurableConflict, order.ID.String(), err)}
		}
		return actorResult{err: fmt.Errorf("exchange: persist order %s: %w", order.ID, err)}
	}

	if a.metrics != nil {
		a.metrics.OrdersPlaced.WithLabelValues(a.symbol.Code, string(order.Side)).Inc()
		a.metrics.TradesTotal.WithLabelValues(a.symbol.Code).Add(float64(len(trades)))
		a.metrics.MatchDuration.WithLabelValues(a.symbol.Code).Observe(time.Since(start).Seconds())
	}

	a.publish(order, trades, engineCancels)

	return actorResult{placed: PlaceOrderResult{Order: order, Trades: trades}}
}

// applyCancel persists a self-trade-prevention cancellation against an
// existing resting order row: the order being cancelled is not the incoming
// one the caller placed, so it must be re-read before it can be updated.
func (a *symbolActor) applyCancel(ctx context.Context, tx store.Store, c book.Cancel, now time.Time) error {
	o, err := tx.GetOrder(ctx, c.OrderID)
	if err != nil {
		return err
	}
	o.CancelledQuantity += c.Quantity
	o.UpdatedAt = now
	if o.Remaining() == 0 {
		o.Status = domain.Cancelled
	} else {
		o.Status = domain.Partial
	}
	if err := tx.UpdateOrder(ctx, o); err != nil {
		return err
	}
	if a.metrics != nil {
		a.metrics.OrdersCancelled.WithLabelValues(a.symbol.Code, string(c.Reason)).Inc()
	}
	return nil
}

func (a *symbolActor) applyFillToOrder(ctx context.Context, tx store.Store, orderID uuid.UUID, qty int64, now time.Time) error {
	o, err := tx.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	o.FilledQuantity += qty
	o.UpdatedAt = now
	if o.Remaining() == 0 {
		o.Status = domain.Filled
	} else {
		o.Status = domain.Partial
	}
	return tx.UpdateOrder(ctx, o)
}

func (a *symbolActor) applyTradeToPosition(ctx context.Context, tx store.Store, symbolID uuid.UUID, t domain.Trade) error {
	buyOrder, err := tx.GetOrder(ctx, t.BuyerOrderID)
	if err != nil {
		return err
	}
	sellOrder, err := tx.GetOrder(ctx, t.SellerOrderID)
	if err != nil {
		return err
	}
	if buyOrder.TeamID == sellOrder.TeamID {
		raiseInvariant(a.symbol.Code, fmt.Sprintf("trade %s: buyer and seller belong to the same team", t.ID))
	}
	if err := a.updateOnePosition(ctx, tx, buyOrder.TeamID, symbolID, domain.Buy, t.Quantity, t.Price, t.ExecutedAt); err != nil {
		return err
	}
	return a.updateOnePosition(ctx, tx, sellOrder.TeamID, symbolID, domain.Sell, t.Quantity, t.Price, t.ExecutedAt)
}

func (a *symbolActor) updateOnePosition(ctx context.Context, tx store.Store, teamID, symbolID uuid.UUID, side domain.Side, qty int64, p decimal.Decimal, now time.Time) error {
	pos, err := tx.GetPosition(ctx, teamID, symbolID)
	if err != nil {
		if !isNotFound(err) {
			return err
		}
		pos = domain.Position{TeamID: teamID, SymbolID: symbolID}
	}
	pos = position.Apply(pos, side, qty, p)
	pos.UpdatedAt = now
	return tx.UpsertPosition(ctx, pos)
}

func (a *symbolActor) cancel(ctx context.Context, orderID uuid.UUID) error {
	o, err := a.store.GetOrder(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return newErr(KindOrderNotFound, orderID.String(), err)
		}
		return err
	}
	if o.Status.Terminal() {
		return newErr(KindInvalidOrder, "order already terminal", nil)
	}

	now := time.Now()
	var cancelled int64
	if a.engine.RemoveOrder(orderID) {
		cancelled = o.Remaining()
		o.CancelledQuantity += cancelled
	}
	o.Status = domain.Cancelled
	o.UpdatedAt = now

	if err := a.store.UpdateOrder(ctx, o); err != nil {
		a.invalidate()
		if isConflict(err) {
			return newErr(KindDurableConflict, orderID.String(), err)
		}
		return err
	}
	if a.metrics != nil {
		a.metrics.OrdersCancelled.WithLabelValues(a.symbol.Code, "team_requested").Inc()
	}
	a.notifier.Cancel(notify.CancelEvent{OrderID: o.ID, SymbolID: a.symbol.ID, Symbol: a.symbol.Code, Quantity: cancelled, Reason: "team_requested"})

	bids, asks := a.engine.Depth(10)
	a.notifier.BookUpdate(notify.BookUpdateEvent{
		SymbolID: a.symbol.ID,
		Symbol:   a.symbol.Code,
		Bids:     toDepthEntries(bids),
		Asks:     toDepthEntries(asks),
		At:       time.Now(),
	})
	a.reportDepth(bids, asks)
	return nil
}

// settle cancels every resting order, flattens every team's position in this
// symbol at settlementPrice into realized PnL, and marks the symbol halted
// so no further orders are accepted for it.
func (a *symbolActor) settle(ctx context.Context, settlementPrice decimal.Decimal) error {
	now := time.Now()
	restingIDs := a.engine.AllOrderIDs()

	positions, err := a.store.ListPositions(ctx, a.symbol.ID)
	if err != nil {
		return fmt.Errorf("exchange: settle %s: list positions: %w", a.symbol.Code, err)
	}
	sym := a.symbol
	sym.SettlementActive = true
	sym.SettlementPrice = &settlementPrice

	err = a.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		for _, id := range restingIDs {
			a.engine.RemoveOrder(id)
			o, err := tx.GetOrder(ctx, id)
			if err != nil {
				return err
			}
			o.CancelledQuantity += o.Remaining()
			o.Status = domain.Cancelled
			o.UpdatedAt = now
			if err := tx.UpdateOrder(ctx, o); err != nil {
				return err
			}
		}
		for _, pos := range positions {
			settled := position.Settle(pos, settlementPrice)
			settled.UpdatedAt = now
			if err := tx.UpsertPosition(ctx, settled); err != nil {
				return err
			}
		}
		return tx.UpdateSymbol(ctx, sym)
	})
	if err != nil {
		// The symbol's halt must be durable before any other actor can see
		// it; if the write failed, this actor can no longer be trusted to
		// know whether settlement actually took effect.
		a.invalidate()
		if isConflict(err) {
			return newErr(KindDurableConflict, a.symbol.Code, err)
		}
		return fmt.Errorf("exchange: settle %s: %w", a.symbol.Code, err)
	}

	a.symbol = sym
	return nil
}

// setHalt flips the symbol's trading_halted flag independent of settlement,
// persists it, and updates the actor's in-memory copy on success.
func (a *symbolActor) setHalt(ctx context.Context, halted bool) error {
	sym := a.symbol
	sym.TradingHalted = halted
	if err := a.store.UpdateSymbol(ctx, sym); err != nil {
		a.invalidate()
		if isConflict(err) {
			return newErr(KindDurableConflict, a.symbol.Code, err)
		}
		return fmt.Errorf("exchange: set halt %s: %w", a.symbol.Code, err)
	}
	a.symbol = sym
	return nil
}

func (a *symbolActor) publish(order domain.Order, trades []domain.Trade, cancels []book.Cancel) {
	for _, c := range cancels {
		a.notifier.Cancel(notify.CancelEvent{OrderID: c.OrderID, SymbolID: a.symbol.ID, Symbol: a.symbol.Code, Quantity: c.Quantity, Reason: string(c.Reason)})
	}
	for _, t := range trades {
		a.notifier.Trade(notify.TradeEvent{Trade: t, Symbol: a.symbol.Code})
	}
	bids, asks := a.engine.Depth(10)
	a.notifier.BookUpdate(notify.BookUpdateEvent{
		SymbolID: a.symbol.ID,
		Symbol:   a.symbol.Code,
		Bids:     toDepthEntries(bids),
		Asks:     toDepthEntries(asks),
		At:       time.Now(),
	})
	a.reportDepth(bids, asks)
}

// reportDepth sets the best-level resting quantity gauge for each side,
// zeroing out a side with no resting liquidity.
func (a *symbolActor) reportDepth(bids, asks []book.DepthLevel) {
	if a.metrics == nil {
		return
	}
	var bidQty, askQty int64
	if len(bids) > 0 {
		bidQty = bids[0].Quantity
	}
	if len(asks) > 0 {
		askQty = asks[0].Quantity
	}
	a.metrics.BookDepth.WithLabelValues(a.symbol.Code, "bid").Set(float64(bidQty))
	a.metrics.BookDepth.WithLabelValues(a.symbol.Code, "ask").Set(float64(askQty))
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, store.ErrConflict)
}
