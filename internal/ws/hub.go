package ws

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"highrollers/internal/auth"
	"highrollers/internal/config"
	"highrollers/internal/game"
	"highrollers/internal/session"
)

// Hub tracks live connections. Each connection gets its own session,
// dropped when the connection goes away.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client

	Config   *config.Config
	Sessions *session.Manager
	Verifier auth.Verifier
	Logger   *log.Logger

	upgrader websocket.Upgrader
	// done is closed when Run returns.
	done chan struct{}
}

// NewHub creates a hub. verifier may be nil, in which case every
// connection stays in practice mode.
func NewHub(cfg *config.Config, sessions *session.Manager, verifier auth.Verifier, logger *log.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Config:     cfg,
		Sessions:   sessions,
		Verifier:   verifier,
		Logger:     logger,
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.CORSOrigin),
		},
	}
}

func originChecker(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if allowed == "" || allowed == "*" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowed
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.Logger.Info("Hub stopping", "clients", len(h.Clients))
			return
		case client := <-h.Register:
			h.Clients[client] = true
			h.Logger.Debug("Client connected", "session", client.session.Key(), "clients", len(h.Clients))
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				h.Sessions.Delete(client.session.Key())
				h.Logger.Debug("Client disconnected", "session", client.session.Key(), "clients", len(h.Clients))
			}
		}
	}
}

// ServeWS upgrades the request and starts the client's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("WebSocket upgrade failed", "err", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		Hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
	client.session = h.Sessions.GetOrCreate("ws:"+uuid.NewString(),
		game.OnDealerCard(client.pushView))

	select {
	case h.Register <- client:
	case <-h.done:
		h.Logger.Debug("Hub stopped, dropping connection")
		cancel()
		h.Sessions.Delete(client.session.Key())
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
