// Command cribsim plays random cribbage games between bots and explains hand scores.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"cribbage/internal/domain"
	"cribbage/internal/explain"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
)

type options struct {
	Players      int
	Names        []string
	Seed         int64
	Games        int
	WinningScore int
	Verbose      bool
	Explain      string
	Crib         bool
	RandomHands  int
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		pterm.Warning.Printfln("Error loading .env file: %v", err)
	}

	opts, err := parseFlags()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}

	logLevel := pterm.LogLevelInfo
	if opts.Verbose {
		logLevel = pterm.LogLevelDebug
	}
	logger := slog.New(pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(logLevel)))

	rng := rand.New(rand.NewSource(opts.Seed))
	logger.Debug("cribsim starting", "seed", opts.Seed, "players", opts.Players, "games", opts.Games)

	switch {
	case opts.Explain != "":
		err = runExplain(opts.Explain, opts.Crib)
	case opts.RandomHands > 0:
		err = runRandomHands(rng, opts.RandomHands, opts.Crib)
	default:
		err = runGames(rng, opts, logger)
	}
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	opts := options{
		Players: envInt("CRIBSIM_PLAYERS", domain.MinPlayers),
		Seed:    int64(envInt("CRIBSIM_SEED", 0)),
	}
	names := flag.String("names", "", "comma separated player names")
	flag.IntVar(&opts.Players, "players", opts.Players, "number of players (2-4)")
	flag.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed (0 picks one from the clock)")
	flag.IntVar(&opts.Games, "games", 1, "number of games to simulate")
	flag.IntVar(&opts.WinningScore, "winning-score", domain.DefaultWinningScore, "points needed to win")
	flag.BoolVar(&opts.Verbose, "verbose", false, "log every play and count")
	flag.StringVar(&opts.Explain, "explain", "", `explain the score of a hand, e.g. "5H 5C 5D JS | 5S"`)
	flag.BoolVar(&opts.Crib, "crib", false, "score -explain and -random-hands hands as a crib")
	flag.IntVar(&opts.RandomHands, "random-hands", 0, "deal and explain N random hands")
	flag.Parse()

	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	playersSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "players" {
			playersSet = true
		}
	})
	var err error
	if opts.Names, err = playerNames(*names, opts.Players, playersSet); err != nil {
		return opts, err
	}
	opts.Players = len(opts.Names)
	return opts, nil
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// playerNames fills in default names up to players. Unless players was given explicitly,
// a longer name list raises the player count to match it.
func playerNames(list string, players int, playersSet bool) ([]string, error) {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if !playersSet && len(names) > players {
		players = len(names)
	}
	if len(names) > players {
		return nil, fmt.Errorf("%d names given for %d players", len(names), players)
	}
	for i := len(names); i < players; i++ {
		names = append(names, fmt.Sprintf("Player %d", i+1))
	}
	return names, nil
}

// parseHand reads "hand | starter", e.g. "5H 5C 5D JS | 5S".
func parseHand(s string) ([]domain.Card, domain.Card, error) {
	handPart, starterPart, ok := strings.Cut(s, "|")
	if !ok {
		return nil, domain.Card{}, fmt.Errorf("expected \"hand | starter\", got %q", s)
	}
	hand, err := domain.ParseCards(handPart)
	if err != nil {
		return nil, domain.Card{}, err
	}
	starter, err := domain.ParseCard(starterPart)
	if err != nil {
		return nil, domain.Card{}, err
	}
	return hand, starter, nil
}

func runExplain(input string, crib bool) error {
	hand, starter, err := parseHand(input)
	if err != nil {
		return err
	}
	bd, err := domain.ScoreHand(hand, starter, crib)
	if err != nil {
		return err
	}
	pterm.DefaultBox.WithTitle(pterm.LightCyan("SCORE")).Println(explain.Render(hand, starter, crib, bd))
	return nil
}

func runRandomHands(rng *rand.Rand, n int, crib bool) error {
	for i := 0; i < n; i++ {
		deck := domain.NewDeck()
		deck.Shuffle(rng)
		cards, err := deck.DrawN(domain.HandSize + 1)
		if err != nil {
			return err
		}
		hand, starter := cards[:domain.HandSize], cards[domain.HandSize]
		bd, err := domain.ScoreHand(hand, starter, crib)
		if err != nil {
			return err
		}
		pterm.DefaultBox.WithTitle(fmt.Sprintf("HAND %d", i+1)).Println(explain.Render(hand, starter, crib, bd))
	}
	return nil
}
