package domain

import "errors"

var (
	ErrCardNotAvailable = errors.New("card not available in hand")
	ErrHandFull         = errors.New("hand is full")
	ErrDuplicateCard    = errors.New("card already in hand")
)

// CardState tags where a dealt card currently is.
type CardState int

const (
	CardUnplayed CardState = iota
	CardPlayed
	CardDiscarded
)

type heldCard struct {
	card  Card
	state CardState
}

// Hand is a player's dealt cards. Each card carries exactly one state, so a card can never be
// both played and discarded.
type Hand struct {
	capacity int
	cards    []heldCard
}

// NewHand returns an empty hand that accepts up to capacity cards.
func NewHand(capacity int) *Hand {
	return &Hand{capacity: capacity, cards: make([]heldCard, 0, capacity)}
}

// Add deals a card into the hand.
func (h *Hand) Add(c Card) error {
	if len(h.cards) >= h.capacity {
		return ErrHandFull
	}
	if h.index(c) >= 0 {
		return ErrDuplicateCard
	}
	h.cards = append(h.cards, heldCard{card: c})
	return nil
}

// Play marks an unplayed card as played.
func (h *Hand) Play(c Card) error {
	return h.transition(c, CardPlayed)
}

// Discard marks an unplayed card as sent to the crib.
func (h *Hand) Discard(c Card) error {
	return h.transition(c, CardDiscarded)
}

// Has reports whether c is in the hand and still unplayed.
func (h *Hand) Has(c Card) bool {
	i := h.index(c)
	return i >= 0 && h.cards[i].state == CardUnplayed
}

// State returns the state of c and whether the hand holds it at all.
func (h *Hand) State(c Card) (CardState, bool) {
	i := h.index(c)
	if i < 0 {
		return 0, false
	}
	return h.cards[i].state, true
}

// Len is the number of cards dealt into the hand, whatever their state.
func (h *Hand) Len() int {
	return len(h.cards)
}

// Unplayed returns the cards neither played nor discarded, in deal order.
func (h *Hand) Unplayed() []Card {
	return h.filter(CardUnplayed)
}

// Played returns the cards played during pegging, in deal order.
func (h *Hand) Played() []Card {
	return h.filter(CardPlayed)
}

// Discarded returns the cards sent to the crib.
func (h *Hand) Discarded() []Card {
	return h.filter(CardDiscarded)
}

// Kept returns the cards that were not discarded: the hand scored at the show.
func (h *Hand) Kept() []Card {
	out := make([]Card, 0, len(h.cards))
	for _, hc := range h.cards {
		if hc.state != CardDiscarded {
			out = append(out, hc.card)
		}
	}
	return out
}

// Clear empties the hand for a new deal.
func (h *Hand) Clear() {
	h.cards = h.cards[:0]
}

func (h *Hand) transition(c Card, to CardState) error {
	i := h.index(c)
	if i < 0 || h.cards[i].state != CardUnplayed {
		return ErrCardNotAvailable
	}
	h.cards[i].state = to
	return nil
}

func (h *Hand) filter(state CardState) []Card {
	var out []Card
	for _, hc := range h.cards {
		if hc.state == state {
			out = append(out, hc.card)
		}
	}
	return out
}

func (h *Hand) index(c Card) int {
	for i, hc := range h.cards {
		if hc.card == c {
			return i
		}
	}
	return -1
}
