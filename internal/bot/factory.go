package bot

import "math/rand"

// NewAgent builds a random-move agent for a user id, named after its bot identity when one is known.
func NewAgent(userID string, rng *rand.Rand) *Agent {
	name := GetBotDisplayName(userID)
	if name == "" {
		name = userID
	}
	return &Agent{ID: userID, Name: name, Brain: NewRandomBrain(rng)}
}
