package shoe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"highrollers/internal/game"
)

// DefaultDeckAPIURL is the public Deck of Cards service.
const DefaultDeckAPIURL = "https://deckofcardsapi.com"

// ErrRejected is returned when the deck service answers success=false.
var ErrRejected = errors.New("deck api: request rejected")

// DeckAPI draws from a remote shoe on the Deck of Cards API. The remote
// shoe is created lazily, so Remaining reports 0 until the first reshuffle.
type DeckAPI struct {
	baseURL string
	decks   int
	client  *http.Client
	logger  *log.Logger

	mu        sync.Mutex
	deckID    string
	remaining int
}

func NewDeckAPI(baseURL string, decks int, logger *log.Logger) *DeckAPI {
	if baseURL == "" {
		baseURL = DefaultDeckAPIURL
	}
	if decks < 1 {
		decks = 1
	}
	return &DeckAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		decks:   decks,
		logger:  logger,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type deckResponse struct {
	Success   bool      `json:"success"`
	DeckID    string    `json:"deck_id"`
	Remaining int       `json:"remaining"`
	Cards     []apiCard `json:"cards"`
	Error     string    `json:"error,omitempty"`
}

type apiCard struct {
	Code  string `json:"code"`
	Value string `json:"value"`
	Suit  string `json:"suit"`
	Image string `json:"image"`
}

func (c apiCard) card() (game.Card, error) {
	rank, err := game.ParseRank(c.Value)
	if err != nil {
		return game.Card{}, err
	}
	suit := game.Suit(strings.ToUpper(c.Suit))
	for _, s := range game.Suits {
		if s == suit {
			return game.Card{Rank: rank, Suit: suit, Image: c.Image}, nil
		}
	}
	return game.Card{}, fmt.Errorf("unknown suit %q", c.Suit)
}

func (d *DeckAPI) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.remaining
}

// Reshuffle asks the service for a brand new shuffled shoe.
func (d *DeckAPI) Reshuffle(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.newShoe(ctx)
}

func (d *DeckAPI) newShoe(ctx context.Context) error {
	q := url.Values{"deck_count": {fmt.Sprint(d.decks)}}
	resp, err := d.get(ctx, "/api/deck/new/shuffle/?"+q.Encode())
	if err != nil {
		return &game.SupplyError{Op: "new shoe", Err: err}
	}
	d.deckID = resp.DeckID
	d.remaining = resp.Remaining
	if d.logger != nil {
		d.logger.Info("New shoe", "deck_id", d.deckID, "remaining", d.remaining)
	}
	return nil
}

func (d *DeckAPI) Draw(ctx context.Context, count int) ([]game.Card, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deckID == "" {
		if err := d.newShoe(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{"count": {fmt.Sprint(count)}}
	resp, err := d.get(ctx, "/api/deck/"+url.PathEscape(d.deckID)+"/draw/?"+q.Encode())
	if err != nil {
		return nil, &game.SupplyError{Op: "draw", Err: err}
	}
	if len(resp.Cards) != count {
		return nil, &game.SupplyError{Op: "draw", Err: fmt.Errorf("wanted %d cards, got %d", count, len(resp.Cards))}
	}

	out := make([]game.Card, 0, count)
	for _, c := range resp.Cards {
		card, err := c.card()
		if err != nil {
			return nil, &game.SupplyError{Op: "draw", Err: fmt.Errorf("card %s: %w", c.Code, err)}
		}
		out = append(out, card)
	}
	d.remaining = resp.Remaining
	return out, nil
}

func (d *DeckAPI) get(ctx context.Context, path string) (*deckResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body deckResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !body.Success {
		if body.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, body.Error)
		}
		return nil, ErrRejected
	}
	return &body, nil
}
