// Package explain renders a ScoreBreakdown as plain text, one section per scoring category.
package explain

import (
	"fmt"
	"strings"

	"cribbage/internal/domain"
)

// Render describes how hand and starter produced bd. It reads only the breakdown, never rescoring.
func Render(hand []domain.Card, starter domain.Card, isCrib bool, bd domain.ScoreBreakdown) string {
	var b strings.Builder

	label := "Hand"
	if isCrib {
		label = "Crib"
	}
	fmt.Fprintf(&b, "%s: %s | Starter: %s\n", label, joinCards(hand, " "), starter)

	if len(bd.Fifteens) == 0 {
		b.WriteString("No fifteens\n")
	} else {
		fmt.Fprintf(&b, "Fifteens (%d for 2 each):\n", len(bd.Fifteens))
		for _, combo := range bd.Fifteens {
			fmt.Fprintf(&b, "  %s = 15\n", joinCards(combo, " + "))
		}
		fmt.Fprintf(&b, "  Total: %d\n", bd.FifteenPoints())
	}

	if len(bd.Pairs) == 0 {
		b.WriteString("No pairs\n")
	} else {
		fmt.Fprintf(&b, "Pairs (%d for 2 each):\n", len(bd.Pairs))
		for _, p := range bd.Pairs {
			fmt.Fprintf(&b, "  %s and %s\n", p[0], p[1])
		}
		fmt.Fprintf(&b, "  Total: %d\n", bd.PairPoints())
	}

	if len(bd.Runs) == 0 {
		b.WriteString("No runs\n")
	}
	for _, r := range bd.Runs {
		labels := make([]string, len(r.Ranks))
		for i, rank := range r.Ranks {
			labels[i] = rank.Label()
		}
		fmt.Fprintf(&b, "Run of %d (%s) x%d: %d\n", r.Length, strings.Join(labels, "-"), r.Multiplicity, r.Points())
	}

	switch {
	case bd.FlushPoints == 5:
		b.WriteString("5-card flush: 5\n")
	case bd.FlushPoints == 4:
		b.WriteString("4-card flush: 4\n")
	default:
		b.WriteString("No flush\n")
	}

	if bd.HasNobs {
		fmt.Fprintf(&b, "Nobs (%s): 1\n", bd.NobsCard)
	} else {
		b.WriteString("No nobs\n")
	}

	fmt.Fprintf(&b, "Total score: %d", bd.Total)
	return b.String()
}

func joinCards(cards []domain.Card, sep string) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, sep)
}
