package bot

import (
	"fmt"
	"math/rand"
	"time"

	"cribbage/internal/domain"
)

// RandomBrain picks uniformly among legal actions.
type RandomBrain struct {
	rng *rand.Rand
}

// NewRandomBrain returns a RandomBrain drawing from rng, or a time-seeded source when rng is nil.
func NewRandomBrain(rng *rand.Rand) *RandomBrain {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomBrain{rng: rng}
}

func (b *RandomBrain) ChooseDiscard(game *domain.Game, player *domain.Player) ([]domain.Card, error) {
	hand := player.Hand.Unplayed()
	n := game.Rules.DiscardCount()
	if len(hand) < n {
		return nil, fmt.Errorf("seat %d holds %d cards, needs %d to discard", player.Seat, len(hand), n)
	}
	b.rng.Shuffle(len(hand), func(i, j int) { hand[i], hand[j] = hand[j], hand[i] })
	return hand[:n], nil
}

func (b *RandomBrain) ChoosePlay(game *domain.Game, player *domain.Player) (Move, error) {
	legal := domain.LegalPlays(player.Hand.Unplayed(), game.Play.Count())
	if len(legal) == 0 {
		return Move{Go: true}, nil
	}
	return Move{Card: legal[b.rng.Intn(len(legal))]}, nil
}
