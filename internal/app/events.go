package app

import "cribbage/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventRoundStarted EventKind = "round_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventDiscarded    EventKind = "discarded"
	EventStarterCut   EventKind = "starter_cut"
	EventCardPlayed   EventKind = "card_played"
	EventGoDeclared   EventKind = "go_declared"
	EventSegmentReset EventKind = "segment_reset"
	EventPegged       EventKind = "pegged"
	EventHandScored   EventKind = "hand_scored"
	EventRoundEnded   EventKind = "round_ended"
	EventGameEnded    EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []int // seats; empty means broadcast
}

type RoundStartedPayload struct {
	Round  int
	Dealer int
}

type HandDealtPayload struct {
	Seat int
	Hand []domain.Card
}

type DiscardedPayload struct {
	Seat         int
	Count        int
	CribComplete bool
}

type StarterCutPayload struct {
	Starter  domain.Card
	NextTurn int
}

type CardPlayedPayload struct {
	Seat     int
	Card     domain.Card
	Count    int
	NextTurn int
}

type GoDeclaredPayload struct {
	Seat     int
	NextTurn int
}

type SegmentResetPayload struct {
	NextTurn int
}

// PeggedPayload reports points scored outside the show.
type PeggedPayload struct {
	Seat   int
	Points int
	Reason domain.PegReason
	Score  int
}

// HandScoredPayload carries one counted hand of the show. Crib is set for the dealer's crib.
type HandScoredPayload struct {
	Seat      int
	Crib      bool
	Cards     []domain.Card
	Starter   domain.Card
	Breakdown domain.ScoreBreakdown
	Score     int
}

type RoundEndedPayload struct {
	Round  int
	Scores []int
}

type GameEndedPayload struct {
	Winner int
	Scores []int
}
