package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig carries tunable match rules loaded from a JSON file shipped next
// to the server binary.
type GameConfig struct {
	// WinningScore is the cumulative team score that ends a match.
	WinningScore int `json:"winning_score"`
	// RandomFirstDealer picks the first-round dealer at random instead of seat 0.
	RandomFirstDealer bool `json:"random_first_dealer"`
	// TurnDurationSeconds is advisory for presentation layers; the engine
	// itself has no timeout semantics.
	TurnDurationSeconds int `json:"turn_duration_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path once per
// process.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil if never loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// WinningScore returns the configured winning threshold, defaulting to the
// classic first-to-seven rule.
func WinningScore() int {
	if cfg == nil || cfg.WinningScore <= 0 {
		return 7
	}
	return cfg.WinningScore
}

// TurnDurationSeconds returns the advisory turn duration, defaulting to 30.
func TurnDurationSeconds() int {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 30
	}
	return cfg.TurnDurationSeconds
}
