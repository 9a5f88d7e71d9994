package bot

import (
	"cribbage/internal/domain"
)

// Move represents a pegging decision made by the AI.
type Move struct {
	Go   bool
	Card domain.Card
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	// ChooseDiscard picks exactly game.Rules.DiscardCount() cards to lay away.
	ChooseDiscard(game *domain.Game, player *domain.Player) ([]domain.Card, error)
	// ChoosePlay returns a legal card, or a go when none fits under 31.
	ChoosePlay(game *domain.Game, player *domain.Player) (Move, error)
}
