package domain

import (
	"reflect"
	"testing"
)

func TestCountingOrder(t *testing.T) {
	tests := []struct {
		name    string
		dealer  int
		players int
		want    []int
	}{
		{name: "two players, dealer 0", dealer: 0, players: 2, want: []int{1, 0}},
		{name: "three players, dealer 1", dealer: 1, players: 3, want: []int{2, 0, 1}},
		{name: "four players, dealer 3", dealer: 3, players: 4, want: []int{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountingOrder(tt.dealer, tt.players); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("CountingOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextSeat(t *testing.T) {
	if got := NextSeat(2, 3); got != 0 {
		t.Fatalf("NextSeat(2, 3) = %d, want 0", got)
	}
	if got := NextSeat(0, 2); got != 1 {
		t.Fatalf("NextSeat(0, 2) = %d, want 1", got)
	}
}

func TestContainsAll(t *testing.T) {
	h := NewHand(6)
	for _, c := range []Card{{Rank: 2, Suit: Spades}, {Rank: 3, Suit: Hearts}, {Rank: 4, Suit: Clubs}} {
		if err := h.Add(c); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	_ = h.Discard(Card{Rank: 4, Suit: Clubs})

	tests := []struct {
		name string
		want []Card
		ok   bool
	}{
		{name: "held cards", want: []Card{{Rank: 2, Suit: Spades}, {Rank: 3, Suit: Hearts}}, ok: true},
		{name: "repeated card", want: []Card{{Rank: 2, Suit: Spades}, {Rank: 2, Suit: Spades}}, ok: false},
		{name: "discarded card", want: []Card{{Rank: 4, Suit: Clubs}}, ok: false},
		{name: "foreign card", want: []Card{{Rank: 9, Suit: Clubs}}, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsAll(h, tt.want); got != tt.ok {
				t.Fatalf("ContainsAll() = %t, want %t", got, tt.ok)
			}
		})
	}
}
