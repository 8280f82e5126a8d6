package remote

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub tracks connected clients, fans out outbound frames and collects
// decoded inbound commands.
type Hub struct {
	logger *slog.Logger

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	inbound    chan Command

	mu      sync.Mutex
	clients map[*Client]struct{}

	sendBuf int
}

// HubConfig sizes the hub queues. Zero fields take defaults.
type HubConfig struct {
	// SendBuf is the per-client outbound queue size.
	SendBuf int
	// BroadcastBuf is the hub outbound queue size.
	BroadcastBuf int
	// InboundBuf is the number of decoded commands waiting for Drain.
	InboundBuf int
}

// NewHub constructs a hub. Call Run to start it.
func NewHub(logger *slog.Logger, cfg HubConfig) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sendBuf := cfg.SendBuf
	if sendBuf <= 0 {
		sendBuf = 32
	}
	bcastBuf := cfg.BroadcastBuf
	if bcastBuf <= 0 {
		bcastBuf = 128
	}
	inBuf := cfg.InboundBuf
	if inBuf <= 0 {
		inBuf = 256
	}
	return &Hub{
		logger:     logger,
		broadcast:  make(chan []byte, bcastBuf),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		inbound:    make(chan Command, inBuf),
		clients:    make(map[*Client]struct{}),
		sendBuf:    sendBuf,
	}
}

// Run processes hub events until ctx is canceled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("remote hub starting")
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("remote hub stopping")
			h.closeAllClients()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("remote client registered", "remote_addr", c.remoteAddr, "clients", n)

		case c := <-h.unregister:
			h.removeClient(c, "unregister")

		case msg := <-h.broadcast:
			var slow []*Client
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()
			for _, c := range slow {
				h.removeClient(c, "slow_client")
			}
		}
	}
}

// Clients returns the number of registered clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.closeSend()
		delete(h.clients, c)
	}
}

func (h *Hub) removeClient(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.closeSend()
	h.logger.Info("remote client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
}

// BroadcastBytes queues a serialized frame for every client. It drops the
// frame instead of blocking when the queue is full.
func (h *Hub) BroadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("remote broadcast queue full, dropping message", "bytes", len(msg))
	}
}

// deliver queues a decoded command for the game goroutine.
func (h *Hub) deliver(cmd Command) bool {
	select {
	case h.inbound <- cmd:
		return true
	default:
		return false
	}
}

// Client is one websocket connection.
type Client struct {
	hub *Hub

	conn *websocket.Conn
	send chan []byte
	once sync.Once

	remoteAddr string
	logger     *slog.Logger
}

// NewClient creates a client with the hub's send buffer size.
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, logger *slog.Logger) *Client {
	sendBuf := 32
	if hub != nil && hub.sendBuf > 0 {
		sendBuf = hub.sendBuf
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuf),
		remoteAddr: remoteAddr,
		logger:     logger,
	}
}

func (c *Client) closeSend() {
	c.once.Do(func() { close(c.send) })
}

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	maxMessageSize = 64 << 10
)

func closeStatus(err error) (code int, text string, ok bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text, true
	}
	return 0, "", false
}

func (c *Client) logExit(pump string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	if code, text, ok := closeStatus(err); ok {
		c.logger.Info("remote "+pump+" exiting (close)", "remote_addr", c.remoteAddr, "code", code, "reason", text)
		return
	}
	c.logger.Info("remote "+pump+" exiting", "remote_addr", c.remoteAddr, "error", err)
}

// writePump writes queued frames and keepalive pings until send is closed
// or a write fails.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("writePump", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("writePump", err)
				return
			}
		}
	}
}

// readPump decodes inbound frames into commands until the connection fails,
// then unregisters the client. Malformed frames are logged and skipped.
func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.logExit("readPump", err)
			if c.hub != nil {
				c.hub.unregister <- c
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg []byte) {
	cmd, err := decodeCommand(msg)
	if err != nil {
		c.logger.Warn("remote message rejected", "remote_addr", c.remoteAddr, "error", err)
		return
	}
	if c.hub != nil && !c.hub.deliver(cmd) {
		c.logger.Warn("remote inbound queue full, dropping command", "remote_addr", c.remoteAddr, "type", cmd.Type)
	}
}
