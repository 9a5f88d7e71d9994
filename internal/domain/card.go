package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Suit is one of the four French suits.
type Suit string

const (
	Spades   Suit = "S"
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
)

// Suits lists every suit in deck order.
var Suits = [4]Suit{Spades, Hearts, Diamonds, Clubs}

// Symbol returns the unicode pip for the suit.
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
	default:
		return "?"
	}
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	switch s {
	case Spades, Hearts, Diamonds, Clubs:
		return true
	}
	return false
}

// Rank is the face rank of a card, 1 (ace) through 13 (king).
type Rank int

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Label returns the short rank label ("A", "2".."10", "J", "Q", "K").
func (r Rank) Label() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(int(r))
	}
}

// Card is an immutable playing card. Two cards are equal iff rank and suit match.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard validates rank and suit and returns the card.
func NewCard(rank Rank, suit Suit) (Card, error) {
	if rank < Ace || rank > King {
		return Card{}, fmt.Errorf("rank %d out of range", rank)
	}
	if !suit.Valid() {
		return Card{}, fmt.Errorf("unknown suit %q", suit)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// Value is the counting value used for fifteens and the pegging count:
// face cards count 10, an ace counts 1.
func (c Card) Value() int {
	if c.Rank > 10 {
		return 10
	}
	return int(c.Rank)
}

func (c Card) String() string {
	return c.Rank.Label() + c.Suit.Symbol()
}

// ParseCard reads cards written as rank followed by suit letter or symbol, e.g. "5H", "10♣", "js".
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	var suit Suit
	rankPart := ""
	for _, candidate := range Suits {
		if strings.HasSuffix(s, string(candidate)) {
			suit, rankPart = candidate, strings.TrimSuffix(s, string(candidate))
			break
		}
		if strings.HasSuffix(s, candidate.Symbol()) {
			suit, rankPart = candidate, strings.TrimSuffix(s, candidate.Symbol())
			break
		}
	}
	if suit == "" {
		return Card{}, fmt.Errorf("invalid suit in %q", s)
	}

	var rank Rank
	switch rankPart {
	case "A":
		rank = Ace
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		v, err := strconv.Atoi(rankPart)
		if err != nil || v < 2 || v > 10 {
			return Card{}, fmt.Errorf("invalid rank in %q", s)
		}
		rank = Rank(v)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a whitespace or comma separated list of cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// SortCards orders cards by rank, then suit order.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cardOrder(cards[i]) < cardOrder(cards[j])
	})
}

func cardOrder(c Card) int {
	return int(c.Rank)*4 + suitIndex(c.Suit)
}

func suitIndex(s Suit) int {
	for i, candidate := range Suits {
		if candidate == s {
			return i
		}
	}
	return len(Suits)
}
