// Package wsfeed is a notify.Notifier that fans market-data events out to
// websocket subscribers, with a reader goroutine, a writer goroutine and a
// bounded channel per connection.
// It generalizes websocket_manager.py's per-symbol broadcast groups: there,
// subscribers register under a symbol id and every update is broadcast to
// that group only.
package wsfeed

import (
	"net/http"
	"sync"

	"fenrir/internal/notify"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const outboxSize = 32

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// envelope is the wire shape sent to every subscriber; Type discriminates
// which of the three payload fields is populated.
type envelope struct {
	Type  string                   `json:"type"`
	Book  *notify.BookUpdateEvent  `json:"book,omitempty"`
	Trade *notify.TradeEvent       `json:"trade,omitempty"`
	Cancel *notify.CancelEvent     `json:"cancel,omitempty"`
}

type subscriber struct {
	symbol string
	outbox chan envelope
}

// Hub is a notify.Notifier backed by live websocket connections, grouped by
// the symbol each connection subscribed to.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]*websocket.Conn
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subs: make(map[*subscriber]*websocket.Conn)}
}

// ServeHTTP upgrades the request to a websocket and registers the connection
// as a subscriber to the symbol carried in the "symbol" query parameter.
// The connection is torn down and unregistered when the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("wsfeed: upgrade failed")
		return
	}

	sub := &subscriber{symbol: symbol, outbox: make(chan envelope, outboxSize)}
	h.mu.Lock()
	h.subs[sub] = conn
	h.mu.Unlock()

	go h.writeLoop(sub, conn)
	go h.readLoop(sub, conn)
}

func (h *Hub) readLoop(sub *subscriber, conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(sub, conn)
			return
		}
	}
}

func (h *Hub) writeLoop(sub *subscriber, conn *websocket.Conn) {
	for msg := range sub.outbox {
		if err := conn.WriteJSON(msg); err != nil {
			h.remove(sub, conn)
			return
		}
	}
}

func (h *Hub) remove(sub *subscriber, conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	close(sub.outbox)
	_ = conn.Close()
}

// broadcast pushes env to every subscriber of symbol. A subscriber whose
// outbox is full misses env rather than stalling the publisher; the
// subscriber itself stays registered and receives later events once its
// outbox has room.
func (h *Hub) broadcast(symbol string, env envelope) {
	h.mu.Lock()
	targets := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		if sub.symbol == symbol {
			targets = append(targets, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.outbox <- env:
		default:
			log.Warn().Str("symbol", symbol).Msg("wsfeed: subscriber outbox full, dropping event")
		}
	}
}

func (h *Hub) BookUpdate(e notify.BookUpdateEvent) {
	h.broadcast(e.Symbol, envelope{Type: "book_update", Book: &e})
}

func (h *Hub) Trade(e notify.TradeEvent) {
	h.broadcast(e.Symbol, envelope{Type: "trade", Trade: &e})
}

func (h *Hub) Cancel(e notify.CancelEvent) {
	h.broadcast(e.Symbol, envelope{Type: "cancel", Cancel: &e})
}
