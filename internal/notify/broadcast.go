package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/finnvos/skysniper/internal/model"
	"github.com/finnvos/skysniper/internal/price"
)

const auctionLinkBase = "https://sky.lea.moe/auction/"

// flipMessage is the wire format published to broadcast subscribers.
type flipMessage struct {
	Command         string  `json:"command"`
	Price           float64 `json:"price"`
	LowestBin       float64 `json:"lowest_bin"`
	SecondLowestBin float64 `json:"second_lowest_bin"`
}

// Broadcast is a websocket server that fans flip events out to every
// connected subscriber. Subscribers come and go at any time; the connection
// registry has its own lock because accepts and closes race with the polling
// loop's publishes.
type Broadcast struct {
	addr   string
	index  *price.Index
	logger *slog.Logger

	upgrader websocket.Upgrader
	server   *http.Server
	listener net.Listener

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	wg sync.WaitGroup
}

// NewBroadcast creates a broadcast server listening on addr. The index
// supplies the lowest and second-lowest unit prices carried alongside each
// published flip.
func NewBroadcast(addr string, index *price.Index, logger *slog.Logger) *Broadcast {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcast{
		addr:   addr,
		index:  index,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Start begins accepting subscriber connections.
func (b *Broadcast) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", b.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", b.addr, err)
	}
	b.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/", b.handleSubscribe)
	b.server = &http.Server{Handler: mux}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.server.Serve(ln); err != http.ErrServerClosed {
			b.logger.Error("broadcast server error", "err", err)
		}
	}()

	b.logger.Info("broadcast server started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listen address.
func (b *Broadcast) Addr() string {
	if b.listener == nil {
		return b.addr
	}
	return b.listener.Addr().String()
}

// Stop closes all subscriber connections and shuts the server down.
func (b *Broadcast) Stop(ctx context.Context) error {
	b.mu.Lock()
	for conn := range b.conns {
		conn.Close()
	}
	b.conns = make(map[*websocket.Conn]struct{})
	b.mu.Unlock()

	var err error
	if b.server != nil {
		err = b.server.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.logger.Info("broadcast server stopped")
	return err
}

// handleSubscribe upgrades a subscriber and parks a read loop on it so
// closes are noticed promptly. Inbound messages are discarded.
func (b *Broadcast) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	b.mu.Lock()
	b.conns[conn] = struct{}{}
	total := len(b.conns)
	b.mu.Unlock()

	b.logger.Info("subscriber connected", "remote", conn.RemoteAddr().String(), "total", total)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		b.drop(conn)
	}()
}

func (b *Broadcast) drop(conn *websocket.Conn) {
	conn.Close()

	b.mu.Lock()
	_, present := b.conns[conn]
	delete(b.conns, conn)
	total := len(b.conns)
	b.mu.Unlock()

	if present {
		b.logger.Info("subscriber disconnected", "remote", conn.RemoteAddr().String(), "total", total)
	}
}

// ClientCount returns the number of connected subscribers.
func (b *Broadcast) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns)
}

// Notify publishes the flip to every subscriber. No subscribers is a silent
// no-op; a failing subscriber is dropped, not retried.
func (b *Broadcast) Notify(ctx context.Context, ev model.FlipEvent) error {
	lowest, _ := b.index.Lowest(ev.Name)
	msg := flipMessage{
		Command:         auctionLinkBase + ev.AuctionID,
		Price:           ev.Price,
		LowestBin:       lowest,
		SecondLowestBin: b.index.SecondLowest(ev.Name),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal flip message: %w", err)
	}

	b.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(b.conns))
	for conn := range b.conns {
		conns = append(conns, conn)
	}
	b.mu.Unlock()

	if len(conns) == 0 {
		return nil
	}

	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	for _, conn := range conns {
		conn.SetWriteDeadline(deadline)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			b.logger.Warn("subscriber write failed, dropping", "err", err)
			b.drop(conn)
		}
	}
	return nil
}
