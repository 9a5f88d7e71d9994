package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"cribbage/internal/domain"
)

// Service contains cribbage use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNotInPhase     = errors.New("action not allowed in current phase")
	ErrUnknownSeat    = errors.New("seat not found")
	ErrInvalidDiscard = errors.New("invalid discard")
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrTooManyPlayers = errors.New("too many players")
	ErrMustPlay       = errors.New("a legal play is available")
)

// NewGame seats the named players. A non-positive winningScore selects the 121 board.
func (s *Service) NewGame(names []string, winningScore int) (*domain.Game, error) {
	if len(names) < MinPlayersToStartGame {
		return nil, ErrTooFewPlayers
	}
	if len(names) > domain.MaxPlayers {
		return nil, ErrTooManyPlayers
	}
	rules, err := domain.NewRules(len(names), winningScore)
	if err != nil {
		return nil, err
	}
	return domain.NewGame(names, rules), nil
}

// StartRound deals the first round of a game in the lobby.
func (s *Service) StartRound(game *domain.Game) ([]Event, error) {
	if game.Phase != domain.PhaseLobby {
		return nil, fmt.Errorf("start round in %s: %w", game.Phase, ErrNotInPhase)
	}
	return s.deal(game)
}

// NextRound passes the deal to the left and deals again once the show is over.
func (s *Service) NextRound(game *domain.Game) ([]Event, error) {
	if game.Phase != domain.PhaseShow {
		return nil, fmt.Errorf("next round in %s: %w", game.Phase, ErrNotInPhase)
	}
	game.Dealer = domain.NextSeat(game.Dealer, len(game.Players))
	return s.deal(game)
}

func (s *Service) deal(game *domain.Game) ([]Event, error) {
	deck := domain.NewDeck()
	deck.Shuffle(s.rng)

	for _, p := range game.Players {
		p.Hand.Clear()
	}
	game.Crib = game.Crib[:0]
	game.Starter = nil
	game.Play = nil
	game.Round++

	// One card at a time, starting left of the dealer.
	n := len(game.Players)
	for i := 0; i < game.Rules.DealSize(); i++ {
		for _, seat := range domain.CountingOrder(game.Dealer, n) {
			c, err := deck.Draw()
			if err != nil {
				return nil, err
			}
			if err := game.Players[seat].Hand.Add(c); err != nil {
				return nil, err
			}
		}
	}
	extra, err := deck.DrawN(game.Rules.CribFromDeck())
	if err != nil {
		return nil, err
	}
	game.Crib = append(game.Crib, extra...)
	game.Deck = deck
	game.Phase = domain.PhaseDiscard

	events := make([]Event, 0, n+1)
	events = append(events, Event{
		Kind:    EventRoundStarted,
		Payload: RoundStartedPayload{Round: game.Round, Dealer: game.Dealer},
	})
	for _, p := range game.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: p.Seat, Hand: p.Hand.Unplayed()},
			Recipients: []int{p.Seat},
		})
	}
	return events, nil
}

// Discard lays cards away to the crib. Once the crib is full the starter is cut and play begins.
func (s *Service) Discard(game *domain.Game, seat int, cards []domain.Card) ([]Event, error) {
	if game.Phase != domain.PhaseDiscard {
		return nil, fmt.Errorf("discard in %s: %w", game.Phase, ErrNotInPhase)
	}
	pl := game.Player(seat)
	if pl == nil {
		return nil, ErrUnknownSeat
	}
	want := game.Rules.DiscardCount()
	if len(pl.Hand.Discarded()) > 0 {
		return nil, fmt.Errorf("seat %d already discarded: %w", seat, ErrInvalidDiscard)
	}
	if len(cards) != want {
		return nil, fmt.Errorf("discard %d cards, want %d: %w", len(cards), want, ErrInvalidDiscard)
	}
	if !domain.ContainsAll(pl.Hand, cards) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDiscard, domain.ErrCardNotAvailable)
	}

	for _, c := range cards {
		_ = pl.Hand.Discard(c)
	}
	game.Crib = append(game.Crib, cards...)

	complete := len(game.Crib) == domain.HandSize
	events := []Event{{
		Kind:    EventDiscarded,
		Payload: DiscardedPayload{Seat: seat, Count: len(cards), CribComplete: complete},
	}}
	if !complete {
		return events, nil
	}
	cut, err := s.cutStarter(game)
	if err != nil {
		return nil, err
	}
	return append(events, cut...), nil
}

func (s *Service) cutStarter(game *domain.Game) ([]Event, error) {
	starter, err := game.Deck.Draw()
	if err != nil {
		return nil, err
	}
	game.Starter = &starter

	n := len(game.Players)
	left := make([]int, n)
	for i, p := range game.Players {
		left[i] = len(p.Hand.Unplayed())
	}
	play, err := domain.NewPlayState(left, domain.NextSeat(game.Dealer, n))
	if err != nil {
		return nil, err
	}
	game.Play = play
	game.Phase = domain.PhasePlay

	events := []Event{{
		Kind:    EventStarterCut,
		Payload: StarterCutPayload{Starter: starter, NextTurn: play.Turn()},
	}}
	if starter.Rank == domain.Jack {
		events = append(events, s.peg(game, game.Dealer, domain.HeelsPoints, ReasonHisHeels)...)
	}
	return events, nil
}

// PlayCard plays one card from seat's hand onto the running count.
func (s *Service) PlayCard(game *domain.Game, seat int, card domain.Card) ([]Event, error) {
	if game.Phase != domain.PhasePlay {
		return nil, fmt.Errorf("play in %s: %w", game.Phase, ErrNotInPhase)
	}
	pl := game.Player(seat)
	if pl == nil {
		return nil, ErrUnknownSeat
	}
	if !pl.Hand.Has(card) {
		return nil, domain.ErrCardNotAvailable
	}
	res, err := game.Play.PlayCard(seat, card)
	if err != nil {
		return nil, err
	}
	_ = pl.Hand.Play(card)

	events := []Event{{
		Kind:    EventCardPlayed,
		Payload: CardPlayedPayload{Seat: seat, Card: card, Count: res.Count, NextTurn: game.Play.Turn()},
	}}
	for _, p := range res.Pegs {
		events = append(events, s.peg(game, seat, p.Points, p.Reason)...)
		if game.Phase == domain.PhaseEnded {
			return events, nil
		}
	}
	after, err := s.afterSegment(game, res.Reset)
	if err != nil {
		return nil, err
	}
	return append(events, after...), nil
}

// SayGo declares that seat cannot play without passing 31.
func (s *Service) SayGo(game *domain.Game, seat int) ([]Event, error) {
	if game.Phase != domain.PhasePlay {
		return nil, fmt.Errorf("go in %s: %w", game.Phase, ErrNotInPhase)
	}
	pl := game.Player(seat)
	if pl == nil {
		return nil, ErrUnknownSeat
	}
	if game.Play.Turn() == seat && domain.CanPlay(pl.Hand.Unplayed(), game.Play.Count()) {
		return nil, ErrMustPlay
	}
	reset, err := game.Play.SayGo(seat)
	if err != nil {
		return nil, err
	}
	events := []Event{{
		Kind:    EventGoDeclared,
		Payload: GoDeclaredPayload{Seat: seat, NextTurn: game.Play.Turn()},
	}}
	after, err := s.afterSegment(game, reset)
	if err != nil {
		return nil, err
	}
	return append(events, after...), nil
}

func (s *Service) afterSegment(game *domain.Game, reset bool) ([]Event, error) {
	var events []Event
	if reset && !game.Play.Done() {
		events = append(events, Event{
			Kind:    EventSegmentReset,
			Payload: SegmentResetPayload{NextTurn: game.Play.Turn()},
		})
	}
	if game.Play.Done() {
		shown, err := s.show(game)
		if err != nil {
			return nil, err
		}
		events = append(events, shown...)
	}
	return events, nil
}

func (s *Service) peg(game *domain.Game, seat, points int, reason domain.PegReason) []Event {
	won := game.AddPoints(seat, points)
	events := []Event{{
		Kind:    EventPegged,
		Payload: PeggedPayload{Seat: seat, Points: points, Reason: reason, Score: game.Players[seat].Score},
	}}
	if won {
		events = append(events, gameEnded(game))
	}
	return events
}

type shownHand struct {
	seat  int
	crib  bool
	cards []domain.Card
	bd    domain.ScoreBreakdown
}

// show counts every hand left of the dealer first, the dealer's hand, then the crib.
// Counting stops as soon as a player reaches the winning score. Every hand is scored
// before any points are awarded, so a malformed hand leaves the game untouched.
func (s *Service) show(game *domain.Game) ([]Event, error) {
	starter := *game.Starter

	var hands []shownHand
	for _, seat := range domain.CountingOrder(game.Dealer, len(game.Players)) {
		hands = append(hands, shownHand{seat: seat, cards: game.Players[seat].Hand.Kept()})
	}
	hands = append(hands, shownHand{seat: game.Dealer, crib: true, cards: append([]domain.Card(nil), game.Crib...)})
	for i := range hands {
		bd, err := domain.ScoreHand(hands[i].cards, starter, hands[i].crib)
		if err != nil {
			return nil, fmt.Errorf("show seat %d (crib %t): %w", hands[i].seat, hands[i].crib, err)
		}
		hands[i].bd = bd
	}

	game.Phase = domain.PhaseShow
	var events []Event
	for _, h := range hands {
		won := game.AddPoints(h.seat, h.bd.Total)
		events = append(events, Event{
			Kind: EventHandScored,
			Payload: HandScoredPayload{
				Seat:      h.seat,
				Crib:      h.crib,
				Cards:     h.cards,
				Starter:   starter,
				Breakdown: h.bd,
				Score:     game.Players[h.seat].Score,
			},
		})
		if won {
			return append(events, gameEnded(game)), nil
		}
	}

	events = append(events, Event{
		Kind:    EventRoundEnded,
		Payload: RoundEndedPayload{Round: game.Round, Scores: game.Scores()},
	})
	return events, nil
}

func gameEnded(game *domain.Game) Event {
	return Event{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{Winner: game.Winner, Scores: game.Scores()},
	}
}
