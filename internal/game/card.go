package game

import (
	"fmt"
	"strings"
)

type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var rankNames = map[Rank]string{
	Ace: "A", Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7",
	Eight: "8", Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K",
}

// Ranks lists every rank in deck order.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

func (r Rank) String() string {
	if s, ok := rankNames[r]; ok {
		return s
	}
	return "?"
}

// Pip is the 1-10 value used for split eligibility and strategy lookups.
// Aces are 1, faces are 10.
func (r Rank) Pip() int {
	if r >= Ten {
		return 10
	}
	return int(r)
}

// ParseRank accepts both short ranks ("A", "10", "K") and the long form used
// by the Deck of Cards API ("ACE", "KING").
func ParseRank(s string) (Rank, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	switch u {
	case "A", "ACE", "1":
		return Ace, nil
	case "J", "JACK":
		return Jack, nil
	case "Q", "QUEEN":
		return Queen, nil
	case "K", "KING":
		return King, nil
	case "T", "0", "10":
		return Ten, nil
	}
	for r := Two; r <= Nine; r++ {
		if rankNames[r] == u {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

type Suit string

const (
	Spades   Suit = "SPADES"
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
)

var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	}
	return ""
}

// Card is immutable once drawn. Image is an opaque reference supplied by
// the shoe (a URL for the remote API, empty for the local shoe).
type Card struct {
	Rank  Rank
	Suit  Suit
	Image string
}

func NewCard(r Rank, s Suit) Card {
	return Card{Rank: r, Suit: s}
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Code is the two character code used by the Deck of Cards API ("AS", "0H").
func (c Card) Code() string {
	r := c.Rank.String()
	if c.Rank == Ten {
		r = "0"
	}
	if c.Suit == "" {
		return r
	}
	return r + string(c.Suit[0])
}

// ParseCard reads a card code such as "AS", "0H", "10H" or "kd".
func ParseCard(code string) (Card, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", code)
	}
	rank, err := ParseRank(code[:len(code)-1])
	if err != nil {
		return Card{}, err
	}
	var suit Suit
	for _, s := range Suits {
		if s[0] == code[len(code)-1] {
			suit = s
		}
	}
	if suit == "" {
		return Card{}, fmt.Errorf("invalid suit in %q", code)
	}
	return NewCard(rank, suit), nil
}
