package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"cribbage/internal/domain"
)

// GameConfig holds the tunables for cribbage matches.
type GameConfig struct {
	WinningScore        int  `json:"winning_score"`
	TurnDurationSeconds int  `json:"turn_duration_seconds"`
	BotsEnabled         bool `json:"bots_enabled"`
	BotMinDelaySeconds  int  `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds  int  `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// Seats is the table size bots fill up to.
	Seats int `json:"seats"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the configuration used when no file is loaded.
func Default() GameConfig {
	return GameConfig{
		WinningScore:            domain.DefaultWinningScore,
		TurnDurationSeconds:     30,
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      3,
		BotAutoFillDelaySeconds: 5,
		Seats:                   domain.MinPlayers,
	}
}

// LoadGameConfig loads the game configuration from the given path.
// Fields missing from the file keep their Default values.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Default()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		if err := c.Validate(); err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns a copy of the global game configuration, or Default if none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// Validate rejects settings no table can run with.
func (c GameConfig) Validate() error {
	if c.Seats < domain.MinPlayers || c.Seats > domain.MaxPlayers {
		return fmt.Errorf("seats must be %d-%d, got %d", domain.MinPlayers, domain.MaxPlayers, c.Seats)
	}
	if c.WinningScore <= 0 {
		return fmt.Errorf("winning_score must be positive, got %d", c.WinningScore)
	}
	if c.BotMinDelaySeconds > c.BotMaxDelaySeconds {
		return fmt.Errorf("bot_min_delay_seconds %d exceeds bot_max_delay_seconds %d", c.BotMinDelaySeconds, c.BotMaxDelaySeconds)
	}
	return nil
}

// ApplyEnv overrides settings from the Nakama runtime environment (cribbage_* keys).
// Unparseable values are ignored.
func (c GameConfig) ApplyEnv(env map[string]string) GameConfig {
	if val, ok := env["cribbage_bots_enabled"]; ok {
		c.BotsEnabled = val == "true"
	}
	setInt := func(key string, dst *int) {
		if val, ok := env[key]; ok {
			if i, err := strconv.Atoi(val); err == nil && i > 0 {
				*dst = i
			}
		}
	}
	setInt("cribbage_bot_min_delay_sec", &c.BotMinDelaySeconds)
	setInt("cribbage_bot_max_delay_sec", &c.BotMaxDelaySeconds)
	setInt("cribbage_bot_auto_fill_delay_sec", &c.BotAutoFillDelaySeconds)
	setInt("cribbage_turn_duration_sec", &c.TurnDurationSeconds)
	setInt("cribbage_winning_score", &c.WinningScore)
	setInt("cribbage_seats", &c.Seats)
	if c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		c.BotMaxDelaySeconds = c.BotMinDelaySeconds
	}
	return c
}
