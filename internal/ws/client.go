package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"highrollers/internal/game"
	"highrollers/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

// Client is a middleman between the websocket connection and its session.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	session *session.Session
	ctx     context.Context
	cancel  context.CancelFunc
}

// ReadPump handles messages in order, one at a time, so table actions from
// one connection never overlap.
func (c *Client) ReadPump() {
	defer func() {
		c.cancel()
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
			c.Hub.Sessions.Delete(c.session.Key())
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.Logger.Warn("WebSocket read error", "session", c.session.Key(), "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "auth":
		c.handleAuth(envelope.Raw)
	case "deal":
		c.handleDeal(envelope.Raw)
	case "state":
		c.pushState()
	default:
		action, err := game.ParseAction(envelope.Type)
		if err != nil {
			c.sendError("Unknown message type: " + envelope.Type)
			return
		}
		c.handleAction(action)
	}
}

func (c *Client) handleAuth(raw json.RawMessage) {
	var msg AuthMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid auth message.")
		return
	}

	if msg.Token == "" {
		c.session.SignOut()
		c.pushState()
		return
	}
	if c.Hub.Verifier == nil {
		c.sendError("Server auth not configured.")
		return
	}

	id, err := c.Hub.Verifier.Verify(c.ctx, msg.Token)
	if err != nil {
		c.Hub.Logger.Debug("Token rejected", "session", c.session.Key(), "err", err)
		c.sendError("Invalid token. Playing in practice mode.")
		return
	}
	if err := c.session.SignIn(c.ctx, id); err != nil {
		c.Hub.Logger.Error("Sign in failed", "session", c.session.Key(), "user", id.UserID, "err", err)
		c.sendError("Could not load your profile.")
		return
	}
	c.pushState()
}

func (c *Client) handleDeal(raw json.RawMessage) {
	var msg DealMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid deal message.")
		return
	}

	// Without an identity every round is a practice round.
	practice := msg.Practice || c.session.Identity() == nil
	if err := c.session.SetPractice(practice); err != nil {
		c.sendError(errorText(err))
		return
	}
	bet := msg.Bet
	if bet == 0 {
		bet = int64(c.Hub.Config.BetOrDefault(0))
	}
	if err := c.session.Table().Deal(c.ctx, bet); err != nil {
		c.fail("deal", err)
		return
	}
	c.pushState()
}

func (c *Client) handleAction(a game.Action) {
	t := c.session.Table()
	var err error
	switch a {
	case game.Hit:
		err = t.Hit(c.ctx)
	case game.Stand:
		err = t.Stand(c.ctx)
	case game.Double:
		err = t.Double(c.ctx)
	case game.Split:
		err = t.Split(c.ctx)
	}
	if err != nil {
		c.fail(a.String(), err)
		return
	}
	c.pushState()
}

func (c *Client) fail(op string, err error) {
	if game.IsValidation(err) {
		c.Hub.Logger.Debug("Rejected", "session", c.session.Key(), "op", op, "err", err)
	} else {
		c.Hub.Logger.Error("Action failed", "session", c.session.Key(), "op", op, "err", err)
	}
	c.sendError(errorText(err))
}

func errorText(err error) string {
	var supply *game.SupplyError
	switch {
	case errors.Is(err, session.ErrSignedOut):
		return "Sign in to play for credits."
	case errors.Is(err, game.ErrInvalidBet):
		return "Invalid bet."
	case errors.Is(err, game.ErrInsufficientCredits):
		return "Not enough credits."
	case errors.Is(err, game.ErrDoubleNotAllowed):
		return "You can't double now."
	case errors.Is(err, game.ErrSplitNotAllowed):
		return "You can't split now."
	case errors.Is(err, game.ErrNotAllowed):
		return "Not allowed right now."
	case errors.As(err, &supply):
		return "Card supply failed. Nothing changed, try again."
	}
	return "Something went wrong."
}

func (c *Client) pushState() {
	c.pushView(c.session.Table().View())
}

// pushView runs under the table lock during dealer play, so it reads only
// the session's stats and identity.
func (c *Client) pushView(v game.View) {
	msg := StateMsg{
		Type:  "state",
		Table: v,
		Stats: c.session.Stats(),
	}
	if id := c.session.Identity(); id != nil {
		msg.SignedIn = true
		msg.UserID = id.UserID
	}
	c.send(msg)
}

func (c *Client) sendError(message string) {
	c.send(ErrorMsg{Type: "error", Message: message})
}

// send never blocks. A full or closed channel drops the message.
func (c *Client) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.Hub.Logger.Error("Encode message", "err", err)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.Hub.Logger.Warn("Send on closed client", "session", c.session.Key())
		}
	}()
	select {
	case c.Send <- data:
	default:
	}
}
