// Package memory provides an in-process store.Store used by tests and by
// the package-local fidelity checks in internal/exchange. It keeps every row
// in a mutex-protected map, favoring simple, explicit state over an external
// dependency for anything that doesn't need to survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"fenrir/internal/domain"
	"fenrir/internal/store"

	"github.com/google/uuid"
)

// Store is an in-memory store.Store. The zero value is not usable; use New.
type Store struct {
	mu        sync.Mutex
	symbols   map[string]domain.Symbol
	orders    map[uuid.UUID]domain.Order
	trades    map[uuid.UUID]domain.Trade
	positions map[positionKey]domain.Position
}

type positionKey struct {
	team   uuid.UUID
	symbol uuid.UUID
}

// New creates an empty store seeded with the given symbols, keyed by code.
func New(symbols ...domain.Symbol) *Store {
	s := &Store{
		symbols:   make(map[string]domain.Symbol, len(symbols)),
		orders:    make(map[uuid.UUID]domain.Order),
		trades:    make(map[uuid.UUID]domain.Trade),
		positions: make(map[positionKey]domain.Position),
	}
	for _, sym := range symbols {
		s.symbols[sym.Code] = sym
	}
	return s
}

// PutSymbol inserts or replaces a symbol row, for test/seed setup.
func (s *Store) PutSymbol(sym domain.Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols[sym.Code] = sym
}

func (s *Store) GetSymbol(_ context.Context, code string) (domain.Symbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sym, ok := s.symbols[code]
	if !ok {
		return domain.Symbol{}, store.ErrNotFound
	}
	return sym, nil
}

// UpdateSymbol persists sym's activation flags, keyed by code.
func (s *Store) UpdateSymbol(_ context.Context, sym domain.Symbol) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.symbols[sym.Code]; !ok {
		return store.ErrNotFound
	}
	s.symbols[sym.Code] = sym
	return nil
}

func (s *Store) OpenOrders(_ context.Context, symbolID uuid.UUID, exclude map[uuid.UUID]struct{}) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Order
	for _, o := range s.orders {
		if o.SymbolID != symbolID {
			continue
		}
		if o.Status != domain.Pending && o.Status != domain.Partial {
			continue
		}
		if _, skip := exclude[o.ID]; skip {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (s *Store) InsertOrder(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return store.ErrConflict
	}
	s.orders[order.ID] = order
	return nil
}

func (s *Store) UpdateOrder(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; !exists {
		return store.ErrNotFound
	}
	s.orders[order.ID] = order
	return nil
}

func (s *Store) InsertTrade(_ context.Context, trade domain.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.trades[trade.ID]; exists {
		return store.ErrConflict
	}
	s.trades[trade.ID] = trade
	return nil
}

func (s *Store) GetPosition(_ context.Context, teamID, symbolID uuid.UUID) (domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.positions[positionKey{teamID, symbolID}]
	if !ok {
		return domain.Position{}, store.ErrNotFound
	}
	return pos, nil
}

func (s *Store) ListPositions(_ context.Context, symbolID uuid.UUID) ([]domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Position
	for key, pos := range s.positions {
		if key.symbol == symbolID {
			out = append(out, pos)
		}
	}
	return out, nil
}

func (s *Store) UpsertPosition(_ context.Context, position domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[positionKey{position.TeamID, position.SymbolID}] = position
	return nil
}

// WithTx has no real rollback semantics for the in-memory store — mutations
// are applied directly to s. It exists so exchange.Manager can be written
// once against store.Store and still run against Postgres.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, s)
}
