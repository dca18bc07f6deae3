package engine

import (
	"fmt"
	"time"

	"go-typefight/pkg/constants"
)

// Config holds the tuning of a simulation
type Config struct {
	EnemySpeed    float64
	PlayerSpeed   float64
	MaxDistance   float64
	SpawnInterval time.Duration
	MaxHealth     int
	PlayWord      string
	PauseKey      string
}

// DefaultConfig returns the standard game tuning
func DefaultConfig() Config {
	return Config{
		EnemySpeed:    constants.EnemySpeed,
		PlayerSpeed:   constants.PlayerSpeed,
		MaxDistance:   constants.MaxDistance,
		SpawnInterval: constants.SpawnInterval,
		MaxHealth:     constants.MaxHealth,
		PlayWord:      constants.PlayWord,
		PauseKey:      constants.PauseKey,
	}
}

// Validate rejects tunings the distance model cannot work with
func (c Config) Validate() error {
	if c.EnemySpeed <= 0 || c.PlayerSpeed < 0 {
		return fmt.Errorf("speeds must be positive (enemy %v, player %v)", c.EnemySpeed, c.PlayerSpeed)
	}
	if c.EnemySpeed <= c.PlayerSpeed {
		return fmt.Errorf("enemy speed %v must exceed player speed %v", c.EnemySpeed, c.PlayerSpeed)
	}
	if c.MaxDistance <= 0 {
		return fmt.Errorf("max distance must be positive, got %v", c.MaxDistance)
	}
	if c.SpawnInterval <= 0 {
		return fmt.Errorf("spawn interval must be positive, got %v", c.SpawnInterval)
	}
	if c.MaxHealth <= 0 {
		return fmt.Errorf("max health must be positive, got %d", c.MaxHealth)
	}
	if c.PlayWord == "" {
		return fmt.Errorf("play word is required")
	}
	if c.PauseKey == "" {
		return fmt.Errorf("pause key is required")
	}
	return nil
}
