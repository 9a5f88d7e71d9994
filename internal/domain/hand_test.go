package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestHand_CardStates(t *testing.T) {
	h := NewHand(6)
	cards := []Card{{Rank: 5, Suit: Hearts}, {Rank: 6, Suit: Hearts}, {Rank: 7, Suit: Clubs}, {Rank: Jack, Suit: Spades}}
	for _, c := range cards {
		if err := h.Add(c); err != nil {
			t.Fatalf("Add(%v): %v", c, err)
		}
	}

	if err := h.Discard(cards[0]); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if err := h.Play(cards[1]); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if err := h.Play(cards[0]); !errors.Is(err, ErrCardNotAvailable) {
		t.Fatalf("playing a discarded card: error = %v, want ErrCardNotAvailable", err)
	}
	if err := h.Discard(cards[1]); !errors.Is(err, ErrCardNotAvailable) {
		t.Fatalf("discarding a played card: error = %v, want ErrCardNotAvailable", err)
	}
	if err := h.Play(Card{Rank: 2, Suit: Diamonds}); !errors.Is(err, ErrCardNotAvailable) {
		t.Fatalf("playing a foreign card: error = %v, want ErrCardNotAvailable", err)
	}

	if got, want := h.Unplayed(), cards[2:]; !reflect.DeepEqual(got, want) {
		t.Fatalf("Unplayed() = %v, want %v", got, want)
	}
	if got := h.Played(); !reflect.DeepEqual(got, []Card{cards[1]}) {
		t.Fatalf("Played() = %v", got)
	}
	if got := h.Discarded(); !reflect.DeepEqual(got, []Card{cards[0]}) {
		t.Fatalf("Discarded() = %v", got)
	}
	if got := h.Kept(); !reflect.DeepEqual(got, cards[1:]) {
		t.Fatalf("Kept() = %v, want %v", got, cards[1:])
	}
	if state, ok := h.State(cards[1]); !ok || state != CardPlayed {
		t.Fatalf("State() = %v, %t", state, ok)
	}
}

func TestHand_AddRejects(t *testing.T) {
	h := NewHand(2)
	c := Card{Rank: 3, Suit: Diamonds}
	if err := h.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := h.Add(c); !errors.Is(err, ErrDuplicateCard) {
		t.Fatalf("duplicate Add error = %v", err)
	}
	if err := h.Add(Card{Rank: 4, Suit: Diamonds}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := h.Add(Card{Rank: 5, Suit: Diamonds}); !errors.Is(err, ErrHandFull) {
		t.Fatalf("overfull Add error = %v", err)
	}
	h.Clear()
	if h.Len() != 0 {
		t.Fatalf("Len() after Clear = %d", h.Len())
	}
}
