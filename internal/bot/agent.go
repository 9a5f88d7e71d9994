package bot

import (
	"fmt"

	"cribbage/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID    string
	Name  string
	Brain Brain
}

// Discard asks the agent which cards it lays away from the hand at seat.
func (a *Agent) Discard(game *domain.Game, seat int) ([]domain.Card, error) {
	player := game.Player(seat)
	if player == nil {
		return nil, fmt.Errorf("bot %s: no player at seat %d", a.ID, seat)
	}
	return a.Brain.ChooseDiscard(game, player)
}

// Play asks the agent for its pegging move at seat. A seat that cannot play says go.
func (a *Agent) Play(game *domain.Game, seat int) (Move, error) {
	player := game.Player(seat)
	if player == nil || game.Play == nil {
		return Move{Go: true}, nil
	}
	move, err := a.Brain.ChoosePlay(game, player)
	if err != nil {
		return Move{Go: true}, err
	}
	return move, nil
}
