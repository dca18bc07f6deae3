package constants

import "time"

// Movement constants
const (
	// EnemySpeed is the rate at which enemies advance, in distance units per second
	EnemySpeed = 8.0
	// PlayerSpeed is the rate at which the player closes in, in distance units per second
	PlayerSpeed = 3.0
	// MaxDistance is the normalized lane length, independent of the spawn geometry
	MaxDistance = 100.0
)

// Arena constants. The arena is centered at the origin.
const (
	ArenaHalfWidth  = 50.0
	ArenaHalfHeight = 50.0
)

// Session constants
const (
	MaxHealth     = 25
	SpawnInterval = 2000 * time.Millisecond
	PlayWord      = "war"
	PauseKey      = "Escape"
	MinWordLength = 3
)

// Dispatch constants
const (
	// MaxDispatchRounds bounds the emit cascades raised by watchers within one trigger
	MaxDispatchRounds = 4
)

// Tick constants
const (
	DefaultTickInterval = 20 * time.Millisecond
	MinTickInterval     = 1 * time.Millisecond
	MaxTickInterval     = 1000 * time.Millisecond
)
