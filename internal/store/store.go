// Package store defines the durable row store the exchange manager depends
// on. The store itself — a relational database — is outside this module's
// scope; only the rows it exchanges with the manager and the transactional
// guarantees it must provide are specified here.
package store

import (
	"context"
	"errors"

	"fenrir/internal/domain"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a row lookup by id misses.
var ErrNotFound = errors.New("store: not found")

// ErrConflict signals a concurrent writer violated a uniqueness or
// referential invariant (unique index, foreign key). The manager surfaces
// this to the caller as exchange.ErrDurableConflict and invalidates the
// affected symbol's in-memory book.
var ErrConflict = errors.New("store: conflict")

// Store is the row-level interface the order-book manager depends on. A
// single Store is shared by every symbol; callers serialize their own
// per-symbol access (see internal/exchange's per-symbol actor).
type Store interface {
	// GetSymbol resolves a symbol by its unique code.
	GetSymbol(ctx context.Context, code string) (domain.Symbol, error)

	// UpdateSymbol persists a symbol's mutable activation flags
	// (trading_halted, settlement_active, settlement_price). Every other
	// column is immutable once a symbol is created.
	UpdateSymbol(ctx context.Context, sym domain.Symbol) error

	// OpenOrders returns orders for symbolID with status pending or partial,
	// ordered by (created_at, id), excluding any id in exclude.
	OpenOrders(ctx context.Context, symbolID uuid.UUID, exclude map[uuid.UUID]struct{}) ([]domain.Order, error)

	// GetOrder fetches a single order row by id.
	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)

	// InsertOrder persists a new order row as given. The manager inserts an
	// incoming order with its own fills, cancelled quantity and status
	// already applied.
	InsertOrder(ctx context.Context, order domain.Order) error

	// UpdateOrder persists filled/cancelled-quantity and status changes for
	// an existing order row.
	UpdateOrder(ctx context.Context, order domain.Order) error

	// InsertTrade appends a trade row. Trades are never updated or deleted.
	InsertTrade(ctx context.Context, trade domain.Trade) error

	// GetPosition fetches a (team, symbol) position row, returning a zero
	// position (quantity 0, average_price nil) with ErrNotFound if absent.
	GetPosition(ctx context.Context, teamID, symbolID uuid.UUID) (domain.Position, error)

	// ListPositions returns every team's position row in symbolID, used by
	// settlement to flatten every open holding at once.
	ListPositions(ctx context.Context, symbolID uuid.UUID) ([]domain.Position, error)

	// UpsertPosition writes a position row in place.
	UpsertPosition(ctx context.Context, position domain.Position) error

	// WithTx runs fn inside a single transactional unit; fn's Store view
	// sees its own writes. If fn returns an error, every write is rolled
	// back and that error is returned unwrapped from WithTx.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
