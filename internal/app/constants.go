package app

import "cribbage/internal/domain"

// MinPlayersToStartGame defines the minimum number of occupied seats required to start a game.
// Keep this centralized so tests or local runs can adjust the rule without touching multiple call sites.
const MinPlayersToStartGame = domain.MinPlayers

// ReasonHisHeels tags the two points the dealer pegs when the starter is a jack.
const ReasonHisHeels domain.PegReason = "his_heels"
