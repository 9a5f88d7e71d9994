package domain

import (
	"errors"
	"sort"
)

// HandSize is the number of cards in a scoring hand (the crib included).
const HandSize = 4

// ErrInvalidHand is returned when a hand is not exactly four distinct cards,
// or when the starter duplicates one of them.
var ErrInvalidHand = errors.New("invalid hand")

// RunGroup is one maximal run: Length consecutive ranks, scored Multiplicity times.
type RunGroup struct {
	Length       int
	Multiplicity int
	Ranks        []Rank
}

// Points is the value of the run group.
func (r RunGroup) Points() int {
	return r.Length * r.Multiplicity
}

// ScoreBreakdown is the structured result of scoring a hand with its starter.
type ScoreBreakdown struct {
	Fifteens    [][]Card
	Pairs       [][2]Card
	Runs        []RunGroup
	FlushPoints int
	HasNobs     bool
	NobsCard    Card
	Total       int
}

// FifteensCount is the number of distinct subsets summing to fifteen.
func (b ScoreBreakdown) FifteensCount() int { return len(b.Fifteens) }

// PairsCount is the number of equal-rank 2-combinations.
func (b ScoreBreakdown) PairsCount() int { return len(b.Pairs) }

// FifteenPoints is two points per fifteen.
func (b ScoreBreakdown) FifteenPoints() int { return 2 * len(b.Fifteens) }

// PairPoints is two points per pair.
func (b ScoreBreakdown) PairPoints() int { return 2 * len(b.Pairs) }

// RunPoints sums all maximal run groups.
func (b ScoreBreakdown) RunPoints() int {
	total := 0
	for _, r := range b.Runs {
		total += r.Points()
	}
	return total
}

// NobsPoints is 1 when the hand holds nobs.
func (b ScoreBreakdown) NobsPoints() int {
	if b.HasNobs {
		return 1
	}
	return 0
}

// ScoreHand scores four hand cards plus the starter. isCrib applies the stricter crib flush rule.
// The result does not depend on the order of hand.
func ScoreHand(hand []Card, starter Card, isCrib bool) (ScoreBreakdown, error) {
	if err := validateHand(hand, starter); err != nil {
		return ScoreBreakdown{}, err
	}

	all := make([]Card, 0, HandSize+1)
	all = append(all, hand...)
	all = append(all, starter)
	SortCards(all)

	b := ScoreBreakdown{
		Fifteens:    findFifteens(all),
		Pairs:       findPairs(all),
		Runs:        findRuns(all),
		FlushPoints: flushPoints(hand, starter, isCrib),
	}
	b.NobsCard, b.HasNobs = findNobs(hand, starter)
	b.Total = b.FifteenPoints() + b.PairPoints() + b.RunPoints() + b.FlushPoints + b.NobsPoints()
	return b, nil
}

func validateHand(hand []Card, starter Card) error {
	if len(hand) != HandSize {
		return ErrInvalidHand
	}
	seen := make(map[Card]bool, HandSize+1)
	for _, c := range append([]Card{starter}, hand...) {
		if c.Rank < Ace || c.Rank > King || !c.Suit.Valid() || seen[c] {
			return ErrInvalidHand
		}
		seen[c] = true
	}
	return nil
}

// findFifteens enumerates every subset of two or more cards by bitmask.
func findFifteens(cards []Card) [][]Card {
	var out [][]Card
	n := len(cards)
	for mask := 1; mask < 1<<n; mask++ {
		sum := 0
		var subset []Card
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				sum += cards[i].Value()
				subset = append(subset, cards[i])
			}
		}
		if sum == 15 && len(subset) >= 2 {
			out = append(out, subset)
		}
	}
	// Smaller subsets first, keeping a stable order between equal sizes.
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) < len(out[j]) })
	return out
}

func findPairs(cards []Card) [][2]Card {
	var out [][2]Card
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if cards[i].Rank == cards[j].Rank {
				out = append(out, [2]Card{cards[i], cards[j]})
			}
		}
	}
	return out
}

// findRuns returns the maximal runs of three or more distinct consecutive ranks.
// A duplicated rank inside a run multiplies it instead of creating a new one.
func findRuns(cards []Card) []RunGroup {
	counts := make(map[Rank]int)
	var ranks []Rank
	for _, c := range cards {
		if counts[c.Rank] == 0 {
			ranks = append(ranks, c.Rank)
		}
		counts[c.Rank]++
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })

	var groups []RunGroup
	start := 0
	for i := 1; i <= len(ranks); i++ {
		if i < len(ranks) && ranks[i] == ranks[i-1]+1 {
			continue
		}
		if seq := ranks[start:i]; len(seq) >= 3 {
			mult := 1
			for _, r := range seq {
				mult *= counts[r]
			}
			groups = append(groups, RunGroup{
				Length:       len(seq),
				Multiplicity: mult,
				Ranks:        append([]Rank(nil), seq...),
			})
		}
		start = i
	}
	return groups
}

func flushPoints(hand []Card, starter Card, isCrib bool) int {
	suit := hand[0].Suit
	for _, c := range hand[1:] {
		if c.Suit != suit {
			return 0
		}
	}
	if starter.Suit == suit {
		return 5
	}
	if isCrib {
		return 0
	}
	return 4
}

func findNobs(hand []Card, starter Card) (Card, bool) {
	for _, c := range hand {
		if c.Rank == Jack && c.Suit == starter.Suit {
			return c, true
		}
	}
	return Card{}, false
}
