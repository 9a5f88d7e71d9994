package nakama

import (
	"fmt"

	"cribbage/internal/app"
	"cribbage/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Wire payloads are google.protobuf.Struct messages. Cards travel as short codes such as "10H".

func cardCode(c domain.Card) string {
	return c.Rank.Label() + string(c.Suit)
}

func cardList(cards []domain.Card) []interface{} {
	out := make([]interface{}, len(cards))
	for i, c := range cards {
		out[i] = cardCode(c)
	}
	return out
}

func intList(values []int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// marshalStruct encodes fields as a binary protobuf Struct.
func marshalStruct(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

// unmarshalStruct decodes a client request. An empty payload is an empty Struct.
func unmarshalStruct(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func requestCard(req *structpb.Struct, key string) (domain.Card, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return domain.Card{}, fmt.Errorf("missing %q", key)
	}
	return domain.ParseCard(v.GetStringValue())
}

func requestCards(req *structpb.Struct, key string) ([]domain.Card, error) {
	v, ok := req.GetFields()[key]
	if !ok || v.GetListValue() == nil {
		return nil, fmt.Errorf("missing %q list", key)
	}
	values := v.GetListValue().GetValues()
	cards := make([]domain.Card, 0, len(values))
	for _, item := range values {
		c, err := domain.ParseCard(item.GetStringValue())
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// marshalLabel renders the match label as JSON for Nakama's label index.
func marshalLabel(open int, phase string) (string, error) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"open":  open,
		"game":  matchLabelGame,
		"phase": phase,
	})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// encodeEvent maps an app event to its op code and wire fields.
func encodeEvent(ev app.Event) (int64, map[string]interface{}, error) {
	switch p := ev.Payload.(type) {
	case app.RoundStartedPayload:
		return OpRoundStarted, map[string]interface{}{"round": p.Round, "dealer": p.Dealer}, nil
	case app.HandDealtPayload:
		return OpHandDealt, map[string]interface{}{"seat": p.Seat, "hand": cardList(p.Hand)}, nil
	case app.DiscardedPayload:
		return OpDiscarded, map[string]interface{}{"seat": p.Seat, "count": p.Count, "crib_complete": p.CribComplete}, nil
	case app.StarterCutPayload:
		return OpStarterCut, map[string]interface{}{"starter": cardCode(p.Starter), "next_turn": p.NextTurn}, nil
	case app.CardPlayedPayload:
		return OpCardPlayed, map[string]interface{}{
			"seat":      p.Seat,
			"card":      cardCode(p.Card),
			"count":     p.Count,
			"next_turn": p.NextTurn,
		}, nil
	case app.GoDeclaredPayload:
		return OpGoDeclared, map[string]interface{}{"seat": p.Seat, "next_turn": p.NextTurn}, nil
	case app.SegmentResetPayload:
		return OpSegmentReset, map[string]interface{}{"next_turn": p.NextTurn}, nil
	case app.PeggedPayload:
		return OpPegged, map[string]interface{}{
			"seat":   p.Seat,
			"points": p.Points,
			"reason": string(p.Reason),
			"score":  p.Score,
		}, nil
	case app.HandScoredPayload:
		runs := make([]interface{}, len(p.Breakdown.Runs))
		for i, r := range p.Breakdown.Runs {
			runs[i] = map[string]interface{}{"length": r.Length, "multiplicity": r.Multiplicity}
		}
		return OpHandScored, map[string]interface{}{
			"seat":     p.Seat,
			"crib":     p.Crib,
			"cards":    cardList(p.Cards),
			"starter":  cardCode(p.Starter),
			"fifteens": p.Breakdown.FifteensCount(),
			"pairs":    p.Breakdown.PairsCount(),
			"runs":     runs,
			"flush":    p.Breakdown.FlushPoints,
			"nobs":     p.Breakdown.HasNobs,
			"total":    p.Breakdown.Total,
			"score":    p.Score,
		}, nil
	case app.RoundEndedPayload:
		return OpRoundEnded, map[string]interface{}{"round": p.Round, "scores": intList(p.Scores)}, nil
	case app.GameEndedPayload:
		return OpGameEnded, map[string]interface{}{"winner": p.Winner, "scores": intList(p.Scores)}, nil
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}
