package domain

import "testing"

func TestNewRules(t *testing.T) {
	tests := []struct {
		name         string
		players      int
		wantErr      bool
		dealSize     int
		discardCount int
		cribFromDeck int
	}{
		{name: "two players", players: 2, dealSize: 6, discardCount: 2, cribFromDeck: 0},
		{name: "three players", players: 3, dealSize: 5, discardCount: 1, cribFromDeck: 1},
		{name: "four players", players: 4, dealSize: 5, discardCount: 1, cribFromDeck: 0},
		{name: "one player", players: 1, wantErr: true},
		{name: "five players", players: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRules(tt.players, 0)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewRules(%d) expected error", tt.players)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRules(%d): %v", tt.players, err)
			}
			if r.DealSize() != tt.dealSize || r.DiscardCount() != tt.discardCount || r.CribFromDeck() != tt.cribFromDeck {
				t.Fatalf("deal=%d discard=%d cribFromDeck=%d, want %d %d %d",
					r.DealSize(), r.DiscardCount(), r.CribFromDeck(), tt.dealSize, tt.discardCount, tt.cribFromDeck)
			}
			if r.WinningScore != DefaultWinningScore {
				t.Fatalf("WinningScore = %d, want %d", r.WinningScore, DefaultWinningScore)
			}
			if r.Players*r.DiscardCount()+r.CribFromDeck() != HandSize {
				t.Fatalf("crib would not hold %d cards", HandSize)
			}
		})
	}
}

func TestGameAddPoints(t *testing.T) {
	rules, _ := NewRules(2, 31)
	g := NewGame([]string{"alice", "bob"}, rules)

	if won := g.AddPoints(0, 30); won {
		t.Fatalf("AddPoints(0, 30) should not win at 31")
	}
	if won := g.AddPoints(1, 0); won {
		t.Fatalf("zero points should not win")
	}
	if won := g.AddPoints(0, 5); !won {
		t.Fatalf("AddPoints(0, 5) should win")
	}
	if g.Phase != PhaseEnded || g.Winner != 0 || g.Players[0].Score != 31 {
		t.Fatalf("phase=%s winner=%d score=%d", g.Phase, g.Winner, g.Players[0].Score)
	}
	g.AddPoints(1, 40)
	if g.Players[1].Score != 0 {
		t.Fatalf("points after the win must be ignored, got %d", g.Players[1].Score)
	}
}
