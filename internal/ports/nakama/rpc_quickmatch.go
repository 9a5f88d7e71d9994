package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"cribbage/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// QuickMatchRequest optionally asks for a table size; zero means the configured default.
type QuickMatchRequest struct {
	Seats int `json:"seats"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

func quickMatchQuery() string {
	return fmt.Sprintf("+label.open:>=1 +label.game:%s +label.phase:%s", matchLabelGame, domain.PhaseLobby)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			logger.Warn("rpcQuickMatch [User:%s]: Invalid payload: %v", userID, err)
			return "", runtime.NewError("invalid quick_match payload", 3)
		}
	}

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := domain.MaxPlayers - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, quickMatchQuery())
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		logger.Info("rpcQuickMatch [User:%s]: Found existing match %s", userID, matches[0].MatchId)
		return marshalQuickMatch(QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
	}

	// Create new match; seat/owner assignment happens in MatchJoin (server-authoritative).
	params := map[string]interface{}{}
	if req.Seats > 0 {
		params["seats"] = req.Seats
	}
	matchID, err := nk.MatchCreate(ctx, MatchNameCribbage, params)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchCreate error: %v", userID, err)
		return "", err
	}

	logger.Info("rpcQuickMatch [User:%s]: Created new match %s", userID, matchID)
	return marshalQuickMatch(QuickMatchResponse{MatchID: matchID, IsNew: true})
}

func marshalQuickMatch(resp QuickMatchResponse) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
