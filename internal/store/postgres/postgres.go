// Package postgres is the production store.Store, backed by PostgreSQL
// through database/sql and the github.com/lib/pq driver. See schema.sql for
// the table definitions this package assumes.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fenrir/internal/domain"
	"fenrir/internal/store"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Store is a store.Store backed by a *sql.DB using the lib/pq driver.
type Store struct {
	db execer
}

// execer is satisfied by both *sql.DB and *sql.Tx, letting the same query
// methods run either directly against the pool or inside WithTx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to Postgres at dsn using lib/pq and wraps the pool.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) GetSymbol(ctx context.Context, code string) (domain.Symbol, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, symbol, name, symbol_type, underlying_id, tick_size, lot_size,
		       trading_halted, settlement_active, settlement_price
		FROM symbols WHERE symbol = $1`, code)
	return scanSymbol(row)
}

func scanSymbol(row *sql.Row) (domain.Symbol, error) {
	var sym domain.Symbol
	var underlying uuid.NullUUID
	var tickSize string
	var settlementPrice sql.NullString
	if err := row.Scan(&sym.ID, &sym.Code, &sym.Name, &sym.Category, &underlying,
		&tickSize, &sym.LotSize, &sym.TradingHalted, &sym.SettlementActive, &settlementPrice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Symbol{}, store.ErrNotFound
		}
		return domain.Symbol{}, fmt.Errorf("postgres: get symbol: %w", err)
	}
	if underlying.Valid {
		id := underlying.UUID
		sym.UnderlyingID = &id
	}
	sym.TickSize, _ = decimal.NewFromString(tickSize)
	if settlementPrice.Valid {
		p, _ := decimal.NewFromString(settlementPrice.String)
		sym.SettlementPrice = &p
	}
	return sym, nil
}

// UpdateSymbol persists sym's activation flags (trading_halted,
// settlement_active, settlement_price).
func (s *Store) UpdateSymbol(ctx context.Context, sym domain.Symbol) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE symbols SET trading_halted=$2, settlement_active=$3, settlement_price=$4
		WHERE id=$1`, sym.ID, sym.TradingHalted, sym.SettlementActive, nullableDecimal(sym.SettlementPrice))
	if err != nil {
		return wrapConflict(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) OpenOrders(ctx context.Context, symbolID uuid.UUID, exclude map[uuid.UUID]struct{}) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_id, symbol_id, side, order_type, quantity, price,
		       filled_quantity, cancelled_quantity, status, created_at, updated_at
		FROM orders
		WHERE symbol_id = $1 AND status IN ('pending', 'partial')
		ORDER BY created_at, id`, symbolID)
	if err != nil {
		return nil, fmt.Errorf("postgres: open orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		order, err := scanOrderRows(rows)
		if err != nil {
			return nil, err
		}
		if _, skip := exclude[order.ID]; skip {
			continue
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func scanOrderRows(rows *sql.Rows) (domain.Order, error) {
	var o domain.Order
	var price sql.NullString
	if err := rows.Scan(&o.ID, &o.TeamID, &o.SymbolID, &o.Side, &o.OrderType, &o.Quantity,
		&price, &o.FilledQuantity, &o.CancelledQuantity, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return domain.Order{}, fmt.Errorf("postgres: scan order: %w", err)
	}
	if price.Valid {
		p, _ := decimal.NewFromString(price.String)
		o.Price = &p
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, team_id, symbol_id, side, order_type, quantity, price,
		       filled_quantity, cancelled_quantity, status, created_at, updated_at
		FROM orders WHERE id = $1`, id)
	var o domain.Order
	var price sql.NullString
	if err := row.Scan(&o.ID, &o.TeamID, &o.SymbolID, &o.Side, &o.OrderType, &o.Quantity,
		&price, &o.FilledQuantity, &o.CancelledQuantity, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, store.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("postgres: get order: %w", err)
	}
	if price.Valid {
		p, _ := decimal.NewFromString(price.String)
		o.Price = &p
	}
	return o, nil
}

func (s *Store) InsertOrder(ctx context.Context, o domain.Order) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (id, team_id, symbol_id, side, order_type, quantity, price,
		                     filled_quantity, cancelled_quantity, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.TeamID, o.SymbolID, o.Side, o.OrderType, o.Quantity, nullablePrice(o.Price),
		o.FilledQuantity, o.CancelledQuantity, o.Status, o.CreatedAt, o.UpdatedAt)
	return wrapConflict(err)
}

func (s *Store) UpdateOrder(ctx context.Context, o domain.Order) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET filled_quantity=$2, cancelled_quantity=$3, status=$4, updated_at=$5
		WHERE id=$1`, o.ID, o.FilledQuantity, o.CancelledQuantity, o.Status, o.UpdatedAt)
	if err != nil {
		return wrapConflict(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) InsertTrade(ctx context.Context, t domain.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (id, buyer_order_id, seller_order_id, symbol_id, quantity, price, executed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		t.ID, t.BuyerOrderID, t.SellerOrderID, t.SymbolID, t.Quantity, t.Price.String(), t.ExecutedAt)
	return wrapConflict(err)
}

func (s *Store) GetPosition(ctx context.Context, teamID, symbolID uuid.UUID) (domain.Position, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT team_id, symbol_id, quantity, average_price, realized_pnl, updated_at
		FROM positions WHERE team_id=$1 AND symbol_id=$2`, teamID, symbolID)
	var p domain.Position
	var avg sql.NullString
	var realized string
	if err := row.Scan(&p.TeamID, &p.SymbolID, &p.Quantity, &avg, &realized, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Position{}, store.ErrNotFound
		}
		return domain.Position{}, fmt.Errorf("postgres: get position: %w", err)
	}
	if avg.Valid {
		a, _ := decimal.NewFromString(avg.String)
		p.AveragePrice = &a
	}
	p.RealizedPnL, _ = decimal.NewFromString(realized)
	return p, nil
}

func (s *Store) ListPositions(ctx context.Context, symbolID uuid.UUID) ([]domain.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, symbol_id, quantity, average_price, realized_pnl, updated_at
		FROM positions WHERE symbol_id=$1`, symbolID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list positions: %w", err)
	}
	defer rows.Close()

	var out []domain.Position
	for rows.Next() {
		var p domain.Position
		var avg sql.NullString
		var realized string
		if err := rows.Scan(&p.TeamID, &p.SymbolID, &p.Quantity, &avg, &realized, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan position: %w", err)
		}
		if avg.Valid {
			a, _ := decimal.NewFromString(avg.String)
			p.AveragePrice = &a
		}
		p.RealizedPnL, _ = decimal.NewFromString(realized)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpsertPosition(ctx context.Context, p domain.Position) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO positions (team_id, symbol_id, quantity, average_price, realized_pnl, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (team_id, symbol_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			average_price = EXCLUDED.average_price,
			realized_pnl = EXCLUDED.realized_pnl,
			updated_at = EXCLUDED.updated_at`,
		p.TeamID, p.SymbolID, p.Quantity, nullableDecimal(p.AveragePrice), p.RealizedPnL.String(), p.UpdatedAt)
	return wrapConflict(err)
}

// WithTx opens a real transaction and hands the caller a Store bound to it,
// so every query issued inside fn participates in the same commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		// Already inside a transaction: nesting is not supported, run inline.
		return fn(ctx, s)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	if err := fn(ctx, &Store{db: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func nullablePrice(p *decimal.Decimal) any {
	if p == nil {
		return nil
	}
	return p.String()
}

func nullableDecimal(p *decimal.Decimal) any {
	return nullablePrice(p)
}

// wrapConflict turns a unique/foreign-key violation (SQLSTATE class 23xxx,
// as lib/pq reports it) into store.ErrConflict; other errors pass through.
func wrapConflict(err error) error {
	if err == nil {
		return nil
	}
	type sqlStater interface{ SQLState() string }
	var s sqlStater
	if errors.As(err, &s) && len(s.SQLState()) >= 2 && s.SQLState()[:2] == "23" {
		return fmt.Errorf("%w: %v", store.ErrConflict, err)
	}
	return err
}
