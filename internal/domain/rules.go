package domain

import "fmt"

const (
	MinPlayers = 2
	MaxPlayers = 4

	// DefaultWinningScore is the classic 121-hole board.
	DefaultWinningScore = 121

	// HeelsPoints is pegged by the dealer when the starter is a jack.
	HeelsPoints = 2
)

// Rules captures the deal for a given table size.
type Rules struct {
	Players      int
	WinningScore int
}

// NewRules validates the player count and returns the rules for that table.
// A non-positive winningScore selects DefaultWinningScore.
func NewRules(players, winningScore int) (Rules, error) {
	if players < MinPlayers || players > MaxPlayers {
		return Rules{}, fmt.Errorf("cribbage needs %d-%d players, got %d", MinPlayers, MaxPlayers, players)
	}
	if winningScore <= 0 {
		winningScore = DefaultWinningScore
	}
	return Rules{Players: players, WinningScore: winningScore}, nil
}

// DealSize is the number of cards dealt to each player.
func (r Rules) DealSize() int {
	if r.Players == 2 {
		return 6
	}
	return 5
}

// DiscardCount is the number of cards each player lays away to the crib.
func (r Rules) DiscardCount() int {
	return r.DealSize() - HandSize
}

// CribFromDeck is the number of cards dealt straight from the deck to the crib.
func (r Rules) CribFromDeck() int {
	return HandSize - r.Players*r.DiscardCount()
}
