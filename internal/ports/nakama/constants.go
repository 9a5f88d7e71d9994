package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameCribbage is the authoritative match handler name registered with Nakama.
	MatchNameCribbage = "cribbage_match"

	// matchLabelGame tags our matches in the label so quick match only lists cribbage tables.
	matchLabelGame = "cribbage"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpDiscard   int64 = 2 // {"cards": ["5H", "JS"]}
	OpPlayCard  int64 = 3 // {"card": "5H"}
	OpGo        int64 = 4
	OpNextRound int64 = 5

	// Server -> Client events
	OpMatchState   int64 = 100
	OpRoundStarted int64 = 101
	OpHandDealt    int64 = 102 // send privately
	OpDiscarded    int64 = 103
	OpStarterCut   int64 = 104
	OpCardPlayed   int64 = 105
	OpGoDeclared   int64 = 106
	OpSegmentReset int64 = 107
	OpPegged       int64 = 108
	OpHandScored   int64 = 109
	OpRoundEnded   int64 = 110
	OpGameEnded    int64 = 111
	OpGameError    int64 = 112
)
