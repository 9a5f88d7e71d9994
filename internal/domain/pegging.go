package domain

import "errors"

// MaxCount is the highest running count allowed during pegging.
const MaxCount = 31

const (
	fifteenPoints   = 2
	thirtyOnePoints = 2
	goPoints        = 1
	minPeggingRun   = 3
)

var (
	ErrOutOfTurn    = errors.New("not this player's turn")
	ErrExceedsLimit = errors.New("play would exceed 31")
	ErrPlayOver     = errors.New("play phase is over")
)

// PegReason names why a play scored.
type PegReason string

const (
	PegFifteen   PegReason = "fifteen"
	PegPair      PegReason = "pair"
	PegRun       PegReason = "run"
	PegThirtyOne PegReason = "thirty_one"
	PegGo        PegReason = "go"
	PegLastCard  PegReason = "last_card"
)

// Peg is one award earned by a play.
type Peg struct {
	Points int
	Reason PegReason
}

// Play is one card laid during the current segment.
type Play struct {
	Seat int
	Card Card
}

// PlayResult reports the outcome of a successful PlayCard.
type PlayResult struct {
	// Count is the running count reached by this play, before any reset.
	Count int
	Reset bool
	// Pegs lists the awards in scoring order: fifteen, pair, run, then 31, go or last card.
	Pegs []Peg
}

// Points returns the sum of every award of the play.
func (r PlayResult) Points() int {
	total := 0
	for _, p := range r.Pegs {
		total += p.Points
	}
	return total
}

// PlayState drives the pegging phase of one round. Seats are 0..n-1 and take turns in seat order.
// A segment ends at exactly 31 or when every seat still holding cards has declared go; the
// segment is then cleared and play continues from the seat after the one that closed it.
type PlayState struct {
	cardsLeft  []int
	played     []Play
	count      int
	goDeclared map[int]bool
	turn       int
}

// NewPlayState starts pegging with cardsLeft[i] cards held by seat i; leader plays first.
// If the leader holds no cards the turn passes to the next seat that does.
func NewPlayState(cardsLeft []int, leader int) (*PlayState, error) {
	if len(cardsLeft) < 2 {
		return nil, errors.New("pegging needs at least two seats")
	}
	if leader < 0 || leader >= len(cardsLeft) {
		return nil, errors.New("leader seat out of range")
	}
	ps := &PlayState{
		cardsLeft:  append([]int(nil), cardsLeft...),
		goDeclared: make(map[int]bool),
	}
	ps.turn = ps.nextActive(leader-1, false)
	return ps, nil
}

// Turn returns the seat expected to act, or -1 once every hand is exhausted.
func (ps *PlayState) Turn() int { return ps.turn }

// Count returns the running count of the current segment.
func (ps *PlayState) Count() int { return ps.count }

// Played returns the plays of the current segment in order.
func (ps *PlayState) Played() []Play {
	return append([]Play(nil), ps.played...)
}

// GoDeclared reports whether seat has said go in the current segment.
func (ps *PlayState) GoDeclared(seat int) bool { return ps.goDeclared[seat] }

// CardsLeft returns how many cards seat still holds.
func (ps *PlayState) CardsLeft(seat int) int {
	if seat < 0 || seat >= len(ps.cardsLeft) {
		return 0
	}
	return ps.cardsLeft[seat]
}

// Done reports whether all hands are exhausted.
func (ps *PlayState) Done() bool { return ps.turn < 0 }

// PlayCard lays card for seat. Ownership of the card is the caller's responsibility.
// A rejected play leaves the state untouched and the turn with seat.
func (ps *PlayState) PlayCard(seat int, card Card) (PlayResult, error) {
	if ps.Done() {
		return PlayResult{}, ErrPlayOver
	}
	if seat != ps.turn {
		return PlayResult{}, ErrOutOfTurn
	}
	if ps.cardsLeft[seat] == 0 {
		return PlayResult{}, ErrCardNotAvailable
	}
	if ps.count+card.Value() > MaxCount {
		return PlayResult{}, ErrExceedsLimit
	}

	ps.played = append(ps.played, Play{Seat: seat, Card: card})
	ps.count += card.Value()
	ps.cardsLeft[seat]--
	res := PlayResult{Count: ps.count, Pegs: SegmentPegs(ps.played)}

	if ps.count == MaxCount {
		res.Reset = true
		res.Pegs = append(res.Pegs, Peg{Points: thirtyOnePoints, Reason: PegThirtyOne})
		ps.resetAfter(seat)
		return res, nil
	}

	others, othersGo := 0, 0
	for s := range ps.cardsLeft {
		if s == seat || ps.cardsLeft[s] == 0 {
			continue
		}
		others++
		if ps.goDeclared[s] {
			othersGo++
		}
	}

	switch {
	case others > 0 && othersGo == others:
		res.Reset = true
		res.Pegs = append(res.Pegs, Peg{Points: goPoints, Reason: PegGo})
		ps.resetAfter(seat)
	case others == 0 && ps.cardsLeft[seat] == 0:
		res.Reset = true
		res.Pegs = append(res.Pegs, Peg{Points: goPoints, Reason: PegLastCard})
		ps.resetAfter(seat)
	case others == 0:
		// Nobody else holds cards: seat keeps playing.
	default:
		ps.turn = ps.nextActive(seat, true)
	}
	return res, nil
}

// SayGo records that seat cannot play. Whether seat really has no legal play is for the caller
// to enforce. It reports whether the go closed the segment; no points are awarded here.
func (ps *PlayState) SayGo(seat int) (bool, error) {
	if ps.Done() {
		return false, ErrPlayOver
	}
	if seat != ps.turn {
		return false, ErrOutOfTurn
	}
	ps.goDeclared[seat] = true

	for s, left := range ps.cardsLeft {
		if left > 0 && !ps.goDeclared[s] {
			ps.turn = ps.nextActive(seat, true)
			return false, nil
		}
	}
	ps.resetAfter(seat)
	return true, nil
}

// ResetSegment clears the running count, played cards and go declarations.
// Calling it repeatedly has the same effect as calling it once.
func (ps *PlayState) ResetSegment() {
	ps.clear()
	if ps.turn >= 0 && ps.cardsLeft[ps.turn] > 0 {
		return
	}
	ps.turn = ps.nextActive(ps.turn, false)
}

func (ps *PlayState) resetAfter(seat int) {
	ps.clear()
	ps.turn = ps.nextActive(seat, false)
}

func (ps *PlayState) clear() {
	ps.played = nil
	ps.count = 0
	for s := range ps.goDeclared {
		delete(ps.goDeclared, s)
	}
}

// nextActive walks the seats after from (wrapping, from itself last) and returns the first one
// holding cards, skipping seats that said go when skipGo is set. It returns -1 if none qualify.
func (ps *PlayState) nextActive(from int, skipGo bool) int {
	n := len(ps.cardsLeft)
	if from < 0 {
		from = n - 1
	}
	for i := 1; i <= n; i++ {
		s := (from + i) % n
		if ps.cardsLeft[s] == 0 {
			continue
		}
		if skipGo && ps.goDeclared[s] {
			continue
		}
		return s
	}
	return -1
}

// SegmentPegs scores the last play of a segment against the cards laid before it:
// a count of 15, a trailing pair, trips or quads, and the longest trailing run.
func SegmentPegs(played []Play) []Peg {
	if len(played) == 0 {
		return nil
	}
	var pegs []Peg

	count := 0
	for _, p := range played {
		count += p.Card.Value()
	}
	if count == 15 {
		pegs = append(pegs, Peg{Points: fifteenPoints, Reason: PegFifteen})
	}

	last := played[len(played)-1].Card.Rank
	same := 1
	for i := len(played) - 2; i >= 0 && played[i].Card.Rank == last; i-- {
		same++
	}
	if same >= 2 {
		// Every pair among the matching cards scores: 2, 6 or 12.
		pegs = append(pegs, Peg{Points: same * (same - 1), Reason: PegPair})
	}

	for n := len(played); n >= minPeggingRun; n-- {
		if isRun(played[len(played)-n:]) {
			pegs = append(pegs, Peg{Points: n, Reason: PegRun})
			break
		}
	}
	return pegs
}

// isRun reports whether the plays hold distinct consecutive ranks in any order.
func isRun(plays []Play) bool {
	seen := make(map[Rank]bool, len(plays))
	lo, hi := King, Ace
	for _, p := range plays {
		r := p.Card.Rank
		if seen[r] {
			return false
		}
		seen[r] = true
		lo, hi = min(lo, r), max(hi, r)
	}
	return int(hi-lo) == len(plays)-1
}

// LegalPlays returns the cards that can be laid on count without passing 31.
func LegalPlays(cards []Card, count int) []Card {
	var out []Card
	for _, c := range cards {
		if count+c.Value() <= MaxCount {
			out = append(out, c)
		}
	}
	return out
}

// CanPlay reports whether any of cards can be laid on count.
func CanPlay(cards []Card, count int) bool {
	return len(LegalPlays(cards, count)) > 0
}
