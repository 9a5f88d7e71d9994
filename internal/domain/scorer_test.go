package domain

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func mustCards(t *testing.T, s string) []Card {
	t.Helper()
	cards, err := ParseCards(s)
	if err != nil {
		t.Fatalf("ParseCards(%q): %v", s, err)
	}
	return cards
}

func mustCard(t *testing.T, s string) Card {
	t.Helper()
	c, err := ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", s, err)
	}
	return c
}

func TestScoreHand(t *testing.T) {
	tests := []struct {
		name     string
		hand     string
		starter  string
		crib     bool
		total    int
		fifteens int
		pairs    int
		runs     int
		flush    int
		nobs     bool
	}{
		{name: "perfect 29", hand: "5H 5C 5D JS", starter: "5S", total: 29, fifteens: 8, pairs: 6, nobs: true},
		{name: "run of four", hand: "5H 6H 7H 8D", starter: "2H", total: 10, fifteens: 3, runs: 4},
		{name: "five card flush", hand: "2H 4H 6H 8H", starter: "10H", total: 5, flush: 5},
		{name: "four card flush in hand", hand: "2H 4H 6H 8H", starter: "10D", total: 4, flush: 4},
		{name: "four card flush in crib", hand: "2H 4H 6H 8H", starter: "10D", crib: true, total: 0},
		{name: "five card flush in crib", hand: "2H 4H 6H 8H", starter: "10H", crib: true, total: 5, flush: 5},
		{name: "nobs only", hand: "JD 9C KH 7H", starter: "AD", total: 1, nobs: true},
		{name: "jack starter is not nobs", hand: "2C 4C 6D 8S", starter: "JD", total: 0},
		{name: "two card fifteen", hand: "10H 5D AC 3S", starter: "8H", total: 2, fifteens: 1},
		{name: "three card fifteen", hand: "7H 6D AC 2S", starter: "QH", total: 2, fifteens: 1},
		{name: "three fives and a ten", hand: "5H 5D 5C 2S", starter: "10H", total: 14, fifteens: 4, pairs: 3},
		{name: "pair from starter", hand: "9H 5D 2H 3H", starter: "9C", total: 2, pairs: 1},
		{name: "run of three", hand: "5H 6H 7H AD", starter: "2C", total: 7, fifteens: 2, runs: 3},
		{name: "run of five scores once", hand: "AH 2C 3D 4S", starter: "5H", total: 7, fifteens: 1, runs: 5},
		{name: "double run", hand: "3H 4H 5H 4D", starter: "9C", total: 8, pairs: 1, runs: 6},
		{name: "double double run", hand: "3H 3D 4S 4C", starter: "5H", total: 20, fifteens: 2, pairs: 2, runs: 12},
		{name: "triple run", hand: "3H 3D 3S 4C", starter: "5H", total: 21, fifteens: 3, pairs: 3, runs: 9},
		{name: "nineteen is zero", hand: "2C 4D 6H 8S", starter: "KC", total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScoreHand(mustCards(t, tt.hand), mustCard(t, tt.starter), tt.crib)
			if err != nil {
				t.Fatalf("ScoreHand() error = %v", err)
			}
			if got.Total != tt.total {
				t.Errorf("Total = %d, want %d", got.Total, tt.total)
			}
			if got.FifteensCount() != tt.fifteens {
				t.Errorf("FifteensCount() = %d, want %d", got.FifteensCount(), tt.fifteens)
			}
			if got.PairsCount() != tt.pairs {
				t.Errorf("PairsCount() = %d, want %d", got.PairsCount(), tt.pairs)
			}
			if got.RunPoints() != tt.runs {
				t.Errorf("RunPoints() = %d, want %d", got.RunPoints(), tt.runs)
			}
			if got.FlushPoints != tt.flush {
				t.Errorf("FlushPoints = %d, want %d", got.FlushPoints, tt.flush)
			}
			if got.HasNobs != tt.nobs {
				t.Errorf("HasNobs = %t, want %t", got.HasNobs, tt.nobs)
			}
		})
	}
}

func TestScoreHand_RunGroups(t *testing.T) {
	tests := []struct {
		name string
		hand string
		want []RunGroup
	}{
		{name: "run of four is one group", hand: "5H 6H 7H 8D 2H", want: []RunGroup{{Length: 4, Multiplicity: 1, Ranks: []Rank{5, 6, 7, 8}}}},
		{name: "duplicate rank multiplies", hand: "3H 4H 5H 4D 9C", want: []RunGroup{{Length: 3, Multiplicity: 2, Ranks: []Rank{3, 4, 5}}}},
		{name: "two duplicates multiply", hand: "3H 3D 4S 4C 5H", want: []RunGroup{{Length: 3, Multiplicity: 4, Ranks: []Rank{3, 4, 5}}}},
		{name: "no run", hand: "AH 2C 4D 6S 8H", want: nil},
		{name: "run at the top", hand: "JH QC KD 2S 9H", want: []RunGroup{{Length: 3, Multiplicity: 1, Ranks: []Rank{Jack, Queen, King}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := mustCards(t, tt.hand)
			got, err := ScoreHand(cards[:4], cards[4], false)
			if err != nil {
				t.Fatalf("ScoreHand() error = %v", err)
			}
			if !reflect.DeepEqual(got.Runs, tt.want) {
				t.Fatalf("Runs = %+v, want %+v", got.Runs, tt.want)
			}
		})
	}
}

func TestScoreHand_PerfectHandBreakdown(t *testing.T) {
	got, err := ScoreHand(mustCards(t, "5H 5C 5D JS"), mustCard(t, "5S"), false)
	if err != nil {
		t.Fatalf("ScoreHand() error = %v", err)
	}
	if got.FifteenPoints()+got.PairPoints() != 28 {
		t.Fatalf("fifteens+pairs = %d, want 28", got.FifteenPoints()+got.PairPoints())
	}
	if got.NobsCard != mustCard(t, "JS") {
		t.Fatalf("NobsCard = %v, want J♠", got.NobsCard)
	}
	for _, subset := range got.Fifteens {
		sum := 0
		for _, c := range subset {
			sum += c.Value()
		}
		if sum != 15 {
			t.Fatalf("fifteen subset %v sums to %d", subset, sum)
		}
	}
}

func TestScoreHand_InvalidHand(t *testing.T) {
	tests := []struct {
		name    string
		hand    string
		starter string
	}{
		{name: "too few cards", hand: "10H 5H", starter: "2H"},
		{name: "too many cards", hand: "10H 5H 2H 3H 4H", starter: "2C"},
		{name: "duplicate in hand", hand: "10H 10H 2H 3H", starter: "2C"},
		{name: "starter duplicates hand card", hand: "10H 5H 2H 3H", starter: "5H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScoreHand(mustCards(t, tt.hand), mustCard(t, tt.starter), false)
			if !errors.Is(err, ErrInvalidHand) {
				t.Fatalf("error = %v, want ErrInvalidHand", err)
			}
		})
	}

	if _, err := ScoreHand([]Card{{Rank: 14, Suit: Hearts}, {Rank: 2, Suit: Hearts}, {Rank: 3, Suit: Hearts}, {Rank: 4, Suit: Hearts}}, Card{Rank: 5, Suit: Clubs}, false); !errors.Is(err, ErrInvalidHand) {
		t.Fatalf("out of range rank: error = %v, want ErrInvalidHand", err)
	}
}

func permutations(cards []Card) [][]Card {
	if len(cards) <= 1 {
		return [][]Card{append([]Card(nil), cards...)}
	}
	var out [][]Card
	for i := range cards {
		rest := make([]Card, 0, len(cards)-1)
		rest = append(rest, cards[:i]...)
		rest = append(rest, cards[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]Card{cards[i]}, p...))
		}
	}
	return out
}

func TestScoreHand_OrderIndependent(t *testing.T) {
	hands := []struct{ hand, starter string }{
		{"5H 5C 5D JS", "5S"},
		{"3H 3D 4S 4C", "5H"},
		{"5H 6H 7H 8D", "2H"},
		{"JD 9C KH 7H", "AD"},
	}
	for _, h := range hands {
		cards := mustCards(t, h.hand)
		starter := mustCard(t, h.starter)
		want, err := ScoreHand(cards, starter, false)
		if err != nil {
			t.Fatalf("ScoreHand(%s) error = %v", h.hand, err)
		}
		for _, perm := range permutations(cards) {
			got, err := ScoreHand(perm, starter, false)
			if err != nil {
				t.Fatalf("ScoreHand(%v) error = %v", perm, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("ScoreHand(%v) = %+v, want %+v", perm, got, want)
			}
		}
	}
}

func TestScoreHand_TotalInvariantAndIdempotence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		deck := NewDeck()
		deck.Shuffle(rng)
		cards, err := deck.DrawN(5)
		if err != nil {
			t.Fatalf("DrawN: %v", err)
		}
		crib := i%2 == 0

		first, err := ScoreHand(cards[:4], cards[4], crib)
		if err != nil {
			t.Fatalf("ScoreHand(%v) error = %v", cards, err)
		}
		second, _ := ScoreHand(cards[:4], cards[4], crib)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("ScoreHand(%v) not idempotent: %+v vs %+v", cards, first, second)
		}

		want := 2*first.FifteensCount() + 2*first.PairsCount() + first.FlushPoints + first.NobsPoints()
		for _, r := range first.Runs {
			want += r.Length * r.Multiplicity
		}
		if first.Total != want {
			t.Fatalf("ScoreHand(%v) Total = %d, components sum to %d", cards, first.Total, want)
		}
		if first.Total > 29 {
			t.Fatalf("ScoreHand(%v) Total = %d exceeds 29", cards, first.Total)
		}
	}
}
