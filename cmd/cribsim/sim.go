package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"cribbage/internal/app"
	"cribbage/internal/bot"
	"cribbage/internal/domain"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// maxRounds guards against a game that never reaches the winning score.
const maxRounds = 1000

var errNoWinner = errors.New("game did not finish")

type gameResult struct {
	ID     string
	Winner int
	Rounds int
	Scores []int
}

// playGame runs one game with a random bot in every seat.
func playGame(rng *rand.Rand, names []string, winningScore int, logger *slog.Logger) (gameResult, error) {
	svc := app.NewService(rand.New(rand.NewSource(rng.Int63())))
	game, err := svc.NewGame(names, winningScore)
	if err != nil {
		return gameResult{}, err
	}
	result := gameResult{ID: uuid.NewString(), Winner: -1}
	log := logger.With("game", result.ID)

	agents := make([]*bot.Agent, len(names))
	for i, name := range names {
		agents[i] = &bot.Agent{ID: strconv.Itoa(i), Name: name, Brain: bot.NewRandomBrain(rand.New(rand.NewSource(rng.Int63())))}
	}

	events, err := svc.StartRound(game)
	for err == nil && game.Phase != domain.PhaseEnded {
		logEvents(log, game, events)
		if game.Round > maxRounds {
			return result, errNoWinner
		}
		switch game.Phase {
		case domain.PhaseDiscard:
			events, err = discardAll(svc, game, agents)
		case domain.PhasePlay:
			seat := game.Play.Turn()
			var move bot.Move
			if move, err = agents[seat].Play(game, seat); err != nil {
				break
			}
			if move.Go {
				events, err = svc.SayGo(game, seat)
			} else {
				events, err = svc.PlayCard(game, seat, move.Card)
			}
		case domain.PhaseShow:
			events, err = svc.NextRound(game)
		}
	}
	if err != nil {
		return result, fmt.Errorf("game %s round %d: %w", result.ID, game.Round, err)
	}
	logEvents(log, game, events)

	result.Winner = game.Winner
	result.Rounds = game.Round
	result.Scores = game.Scores()
	return result, nil
}

func discardAll(svc *app.Service, game *domain.Game, agents []*bot.Agent) ([]app.Event, error) {
	var all []app.Event
	for seat, agent := range agents {
		cards, err := agent.Discard(game, seat)
		if err != nil {
			return nil, err
		}
		events, err := svc.Discard(game, seat, cards)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}
	return all, nil
}

func logEvents(log *slog.Logger, game *domain.Game, events []app.Event) {
	name := func(seat int) string { return game.Players[seat].Name }
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.RoundStartedPayload:
			log.Debug("round started", "round", p.Round, "dealer", name(p.Dealer))
		case app.StarterCutPayload:
			log.Debug("starter cut", "starter", p.Starter.String())
		case app.CardPlayedPayload:
			log.Debug("card played", "player", name(p.Seat), "card", p.Card.String(), "count", p.Count)
		case app.GoDeclaredPayload:
			log.Debug("go", "player", name(p.Seat))
		case app.PeggedPayload:
			log.Debug("pegged", "player", name(p.Seat), "points", p.Points, "reason", string(p.Reason), "score", p.Score)
		case app.HandScoredPayload:
			log.Debug("hand scored", "player", name(p.Seat), "crib", p.Crib, "points", p.Breakdown.Total, "score", p.Score)
		case app.RoundEndedPayload:
			log.Info("round ended", "round", p.Round, "scores", fmt.Sprint(p.Scores))
		case app.GameEndedPayload:
			log.Info("game over", "winner", name(p.Winner), "scores", fmt.Sprint(p.Scores))
		}
	}
}

func runGames(rng *rand.Rand, opts options, logger *slog.Logger) error {
	if _, err := domain.NewRules(len(opts.Names), opts.WinningScore); err != nil {
		return err
	}

	wins := make([]int, len(opts.Names))
	table := pterm.TableData{{"Game", "Winner", "Rounds", "Scores"}}
	for i := 0; i < opts.Games; i++ {
		res, err := playGame(rng, opts.Names, opts.WinningScore, logger)
		if err != nil {
			return err
		}
		wins[res.Winner]++
		table = append(table, []string{res.ID, opts.Names[res.Winner], strconv.Itoa(res.Rounds), fmt.Sprint(res.Scores)})
	}

	pterm.DefaultSection.Println("Results")
	if err := pterm.DefaultTable.WithHasHeader().WithData(table).Render(); err != nil {
		return err
	}
	for seat, name := range opts.Names {
		pterm.Info.Printfln("%s won %d of %d games", name, wins[seat], opts.Games)
	}
	return nil
}
