package domain

// Phase represents the lifecycle stage of a cribbage game.
type Phase string

const (
	// PhaseLobby is the state before the first deal.
	PhaseLobby Phase = "lobby"
	// PhaseDiscard waits for every player to lay away to the crib.
	PhaseDiscard Phase = "discard"
	// PhasePlay is the pegging phase.
	PhasePlay Phase = "play"
	// PhaseShow is reached once all cards are played and hands are being counted.
	PhaseShow Phase = "show"
	// PhaseEnded is the state after a player reached the winning score.
	PhaseEnded Phase = "ended"
)

// Player holds the per-seat state of a game.
type Player struct {
	Seat  int
	Name  string
	Score int
	Hand  *Hand
}

// Game is the context for one game of cribbage. Scores and the dealer rotation live here
// and are passed explicitly to every use-case.
type Game struct {
	Rules   Rules
	Phase   Phase
	Players []*Player
	Dealer  int
	Round   int

	Deck    *Deck
	Crib    []Card
	Starter *Card
	Play    *PlayState

	Winner int
}

// NewGame seats the named players; seat 0 deals first.
func NewGame(names []string, rules Rules) *Game {
	players := make([]*Player, len(names))
	for i, name := range names {
		players[i] = &Player{Seat: i, Name: name, Hand: NewHand(rules.DealSize())}
	}
	return &Game{
		Rules:   rules,
		Phase:   PhaseLobby,
		Players: players,
		Winner:  -1,
	}
}

// Player returns the player at seat, or nil.
func (g *Game) Player(seat int) *Player {
	if seat < 0 || seat >= len(g.Players) {
		return nil
	}
	return g.Players[seat]
}

// AddPoints credits seat and reports whether the game is now won. Points after a win are ignored.
func (g *Game) AddPoints(seat, points int) bool {
	if g.Phase == PhaseEnded {
		return true
	}
	p := g.Player(seat)
	if p == nil || points <= 0 {
		return false
	}
	p.Score += points
	if p.Score >= g.Rules.WinningScore {
		p.Score = g.Rules.WinningScore
		g.Winner = seat
		g.Phase = PhaseEnded
		return true
	}
	return false
}

// Scores returns each seat's score in seat order.
func (g *Game) Scores() []int {
	out := make([]int, len(g.Players))
	for i, p := range g.Players {
		out[i] = p.Score
	}
	return out
}
