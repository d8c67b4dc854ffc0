package ws

import (
	"encoding/json"

	"highrollers/internal/game"
	"highrollers/internal/stats"
)

// InboundEnvelope is the generic envelope for all client-to-server messages.
// Type routes the message; Raw keeps the full payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server ---

// AuthMsg carries a Firebase ID token. An empty token signs out.
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// DealMsg starts a round. Bet is ignored in practice; zero means the
// table's default bet.
type DealMsg struct {
	Type     string `json:"type"`
	Bet      int64  `json:"bet"`
	Practice bool   `json:"practice"`
}

// Actions ("hit", "stand", "double", "split") carry nothing but their type.

// --- Server-to-Client ---

type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// StateMsg is pushed after every change, including each paced dealer draw.
type StateMsg struct {
	Type     string        `json:"type"`
	Table    game.View     `json:"table"`
	Stats    stats.Summary `json:"stats"`
	SignedIn bool          `json:"signedIn"`
	UserID   string        `json:"userId,omitempty"`
}
