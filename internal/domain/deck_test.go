package domain

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestNewDeck(t *testing.T) {
	d := NewDeck()
	if d.Len() != DeckSize {
		t.Fatalf("deck size = %d, want %d", d.Len(), DeckSize)
	}
	seen := make(map[Card]bool)
	for _, c := range d.Cards() {
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
		if _, err := NewCard(c.Rank, c.Suit); err != nil {
			t.Fatalf("invalid card %v: %v", c, err)
		}
	}
}

func TestDeck_ShuffleIsSeedable(t *testing.T) {
	a, b := NewDeck(), NewDeck()
	a.Shuffle(rand.New(rand.NewSource(3)))
	b.Shuffle(rand.New(rand.NewSource(3)))
	if !reflect.DeepEqual(a.Cards(), b.Cards()) {
		t.Fatalf("same seed produced different orders")
	}
	if reflect.DeepEqual(a.Cards(), NewDeck().Cards()) {
		t.Fatalf("shuffle left the deck in factory order")
	}
}

func TestDeck_Draw(t *testing.T) {
	d := NewDeck()
	top := d.Cards()[d.Len()-1]
	c, err := d.Draw()
	if err != nil || c != top {
		t.Fatalf("Draw() = %v, %v, want %v", c, err, top)
	}
	cards, err := d.DrawN(5)
	if err != nil || len(cards) != 5 || d.Len() != DeckSize-6 {
		t.Fatalf("DrawN(5) = %d cards, %v, left %d", len(cards), err, d.Len())
	}
	if _, err := d.DrawN(100); !errors.Is(err, ErrDeckEmpty) {
		t.Fatalf("DrawN(100) error = %v, want ErrDeckEmpty", err)
	}
	if d.Len() != DeckSize-6 {
		t.Fatalf("failed DrawN changed the deck")
	}
}
