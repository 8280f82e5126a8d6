// Package remote exposes a spotlight viewer over a websocket. Clients send
// input and commands as JSON envelopes {type, ts, data}; viewer events are
// broadcast back in the same envelope.
package remote

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/phanxgames/spotlight"
)

// ServerConfig configures NewServer.
type ServerConfig struct {
	Hub HubConfig
	// AllowedOrigins restricts browser origins. Empty allows any origin.
	AllowedOrigins []string
}

// Server upgrades HTTP requests to websocket clients and bridges them to a
// viewer. It implements spotlight.EventSink.
type Server struct {
	logger   *slog.Logger
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewServer constructs the server. Register it on a mux and start Run.
func NewServer(logger *slog.Logger, cfg ServerConfig) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		logger: logger,
		hub:    NewHub(logger, cfg.Hub),
	}
	s.upgrader.CheckOrigin = originChecker(cfg.AllowedOrigins)
	return s
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Hub returns the client hub.
func (s *Server) Hub() *Hub { return s.hub }

// Run runs the hub until ctx is canceled.
func (s *Server) Run(ctx context.Context) { s.hub.Run(ctx) }

// Register registers the websocket handler on mux.
func (s *Server) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleWS)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("remote upgrade failed", "error", err)
		return
	}
	client := NewClient(s.hub, conn, r.RemoteAddr, s.logger)
	s.hub.register <- client

	// Pumps outlive the request; the hub and socket errors end them.
	go client.writePump(context.Background())
	go client.readPump(context.Background())
}

// EmitEvent implements spotlight.EventSink by broadcasting e to every client.
func (s *Server) EmitEvent(e spotlight.Event) {
	msg, err := encodeEvent(e)
	if err != nil {
		s.logger.Warn("remote event marshal failed", "type", e.Type, "error", err)
		return
	}
	s.hub.BroadcastBytes(msg)
}

// Drain applies every queued command to v without blocking and returns how
// many ran. Input events are stamped with now. Call it from the goroutine
// that owns v.
func (s *Server) Drain(v *spotlight.Viewer, now time.Time) int {
	n := 0
	for {
		select {
		case cmd := <-s.hub.inbound:
			s.apply(v, cmd, now)
			n++
		default:
			return n
		}
	}
}

func (s *Server) apply(v *spotlight.Viewer, cmd Command, now time.Time) {
	switch {
	case cmd.Input != nil:
		v.Dispatch(spotlight.Stamp(cmd.Input, now))
	case cmd.Action != spotlight.ActionNone:
		v.Perform(cmd.Action)
	case cmd.Type == "open":
		if err := v.OpenAt(cmd.Collection, cmd.Item); err != nil {
			s.logger.Warn("remote open failed", "error", err)
		}
	}
}
