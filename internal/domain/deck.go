package domain

import (
	"errors"
	"math/rand"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// ErrDeckEmpty is returned when drawing more cards than remain.
var ErrDeckEmpty = errors.New("not enough cards in deck")

// Deck is an ordered pile of cards drawn from the top (end of the slice).
type Deck struct {
	cards []Card
}

// NewDeck returns a full, unshuffled 52-card deck.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// Len returns the number of cards left.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, top last.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

// Shuffle permutes the remaining cards using rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] })
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckEmpty
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// DrawN removes and returns the top n cards. The deck is untouched on error.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, ErrDeckEmpty
	}
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, _ := d.Draw()
		out = append(out, c)
	}
	return out, nil
}
