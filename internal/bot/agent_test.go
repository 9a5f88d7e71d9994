package bot

import (
	"math/rand"
	"testing"

	"cribbage/internal/app"
	"cribbage/internal/domain"
)

func TestRandomBrainDiscard(t *testing.T) {
	for _, players := range []int{2, 3, 4} {
		svc := app.NewService(rand.New(rand.NewSource(int64(players))))
		game, err := svc.NewGame([]string{"a", "b", "c", "d"}[:players], 0)
		if err != nil {
			t.Fatalf("NewGame: %v", err)
		}
		if _, err := svc.StartRound(game); err != nil {
			t.Fatalf("StartRound: %v", err)
		}
		agent := NewAgent(GetBotIdentity(0).UserID, rand.New(rand.NewSource(9)))
		for seat := range game.Players {
			cards, err := agent.Discard(game, seat)
			if err != nil {
				t.Fatalf("Discard: %v", err)
			}
			if len(cards) != game.Rules.DiscardCount() {
				t.Fatalf("%d players: discarded %d cards, want %d", players, len(cards), game.Rules.DiscardCount())
			}
			if _, err := svc.Discard(game, seat, cards); err != nil {
				t.Fatalf("service rejected bot discard: %v", err)
			}
		}
	}
}

// Bots alone must drive a whole game through the service without a rejected move.
func TestAgentsPlayFullGame(t *testing.T) {
	svc := app.NewService(rand.New(rand.NewSource(21)))
	game, _ := svc.NewGame([]string{"a", "b", "c"}, 0)
	agents := make([]*Agent, len(game.Players))
	for i := range agents {
		agents[i] = NewAgent(GetBotIdentity(i).UserID, rand.New(rand.NewSource(int64(i))))
	}

	if _, err := svc.StartRound(game); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	for steps := 0; game.Phase != domain.PhaseEnded; steps++ {
		if steps > 10000 {
			t.Fatalf("game did not finish, scores %v", game.Scores())
		}
		switch game.Phase {
		case domain.PhaseDiscard:
			for seat, agent := range agents {
				if len(game.Players[seat].Hand.Discarded()) > 0 {
					continue
				}
				cards, err := agent.Discard(game, seat)
				if err != nil {
					t.Fatalf("Discard: %v", err)
				}
				if _, err := svc.Discard(game, seat, cards); err != nil {
					t.Fatalf("Discard(%d): %v", seat, err)
				}
				break
			}
		case domain.PhasePlay:
			seat := game.Play.Turn()
			move, err := agents[seat].Play(game, seat)
			if err != nil {
				t.Fatalf("Play: %v", err)
			}
			if move.Go {
				_, err = svc.SayGo(game, seat)
			} else {
				_, err = svc.PlayCard(game, seat, move.Card)
			}
			if err != nil {
				t.Fatalf("seat %d move %+v rejected: %v", seat, move, err)
			}
		case domain.PhaseShow:
			if _, err := svc.NextRound(game); err != nil {
				t.Fatalf("NextRound: %v", err)
			}
		}
	}
	if game.Winner < 0 {
		t.Fatalf("no winner recorded")
	}
}

func TestGetBotIdentityFallbackIsBot(t *testing.T) {
	id := GetBotIdentity(2)
	if !IsBot(id.UserID) {
		t.Fatalf("IsBot(%s) = false for a registered bot", id.UserID)
	}
	if again := GetBotIdentity(2); again.UserID != id.UserID {
		t.Fatalf("bot ids not stable: %s vs %s", id.UserID, again.UserID)
	}
	if IsBot("human-user") {
		t.Fatalf("IsBot(human-user) = true")
	}
}

func TestNewAgentNames(t *testing.T) {
	id := GetBotIdentity(0)
	if agent := NewAgent(id.UserID, rand.New(rand.NewSource(1))); agent.Name != GetBotDisplayName(id.UserID) || agent.ID != id.UserID {
		t.Fatalf("agent = %+v, want the bot display name", agent)
	}
	if agent := NewAgent("user-left", rand.New(rand.NewSource(1))); agent.Name != "user-left" {
		t.Fatalf("agent name = %q, want the user id for a human seat", agent.Name)
	}
}
