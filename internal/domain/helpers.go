package domain

// NextSeat returns the seat to the left of seat.
func NextSeat(seat, players int) int {
	return (seat + 1) % players
}

// CountingOrder returns the seats in show order: clockwise from the dealer's left, dealer last.
func CountingOrder(dealer, players int) []int {
	order := make([]int, 0, players)
	for i := 1; i <= players; i++ {
		order = append(order, (dealer+i)%players)
	}
	return order
}

// ContainsAll reports whether every card in want is unplayed in hand, with no card repeated.
func ContainsAll(hand *Hand, want []Card) bool {
	seen := make(map[Card]bool, len(want))
	for _, c := range want {
		if seen[c] || !hand.Has(c) {
			return false
		}
		seen[c] = true
	}
	return true
}
