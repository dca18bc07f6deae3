package config

import (
	"os"
	"time"

	"go-typefight/pkg/constants"
	"go-typefight/pkg/engine"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "TYPEFIGHT_"

type Game struct {
	EnemySpeed    float64       `yaml:"enemySpeed" env:"ENEMY_SPEED"`
	PlayerSpeed   float64       `yaml:"playerSpeed" env:"PLAYER_SPEED"`
	MaxDistance   float64       `yaml:"maxDistance" env:"MAX_DISTANCE"`
	SpawnInterval time.Duration `yaml:"spawnInterval" env:"SPAWN_INTERVAL"`
	MaxHealth     int           `yaml:"maxHealth" env:"MAX_HEALTH"`
	PlayWord      string        `yaml:"playWord" env:"PLAY_WORD"`
	PauseKey      string        `yaml:"pauseKey" env:"PAUSE_KEY"`
}

type Server struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	TickInterval time.Duration `yaml:"tickInterval" env:"TICK_INTERVAL"`
	RoomTTL      time.Duration `yaml:"roomTTL" env:"ROOM_TTL"`
	KeyRate      float64       `yaml:"keyRate" env:"KEY_RATE"` // keystrokes per second
	KeyBurst     int           `yaml:"keyBurst" env:"KEY_BURST"`
}

type Logging struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

type Config struct {
	Game    Game    `yaml:"game" envPrefix:"GAME_"`
	Server  Server  `yaml:"server" envPrefix:"SERVER_"`
	Logging Logging `yaml:"logging" envPrefix:"LOG_"`
}

var (
	ErrConfigFileUnreadable     = errors.New("config file is unreadable")
	ErrConfigFileUnmarshallable = errors.New("config file is unmarshallable")
	ErrServerAddrMissing        = errors.New("server.addr is missing in config")
	ErrTickIntervalOutOfRange   = errors.New("server.tickInterval is out of range")
	ErrRoomTTLMissing           = errors.New("server.roomTTL must be positive")
	ErrKeyRateMissing           = errors.New("server.keyRate must be positive")
	ErrKeyBurstMissing          = errors.New("server.keyBurst must be at least 1")
	ErrInvalidGameConfig        = errors.New("game config is invalid")
)

// Default returns the built-in configuration
func Default() Config {
	game := engine.DefaultConfig()
	return Config{
		Game: Game{
			EnemySpeed:    game.EnemySpeed,
			PlayerSpeed:   game.PlayerSpeed,
			MaxDistance:   game.MaxDistance,
			SpawnInterval: game.SpawnInterval,
			MaxHealth:     game.MaxHealth,
			PlayWord:      game.PlayWord,
			PauseKey:      game.PauseKey,
		},
		Server: Server{
			Addr:         ":4000",
			TickInterval: constants.DefaultTickInterval,
			RoomTTL:      30 * time.Minute,
			KeyRate:      30,
			KeyBurst:     10,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from the defaults, the YAML file at path (when
// not empty) and TYPEFIGHT_* environment variables, in that order.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load reading variables from environ instead of the process
// environment. A nil map means the process environment.
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(ErrConfigFileUnreadable, err.Error())
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(ErrConfigFileUnmarshallable, err.Error())
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration as a whole
func (c *Config) Validate() error {
	if err := c.Engine().Validate(); err != nil {
		return errors.Wrap(ErrInvalidGameConfig, err.Error())
	}
	if c.Server.Addr == "" {
		return ErrServerAddrMissing
	}
	if c.Server.TickInterval < constants.MinTickInterval || c.Server.TickInterval > constants.MaxTickInterval {
		return errors.Wrapf(ErrTickIntervalOutOfRange, "%v not in [%v, %v]",
			c.Server.TickInterval, constants.MinTickInterval, constants.MaxTickInterval)
	}
	if c.Server.RoomTTL <= 0 {
		return ErrRoomTTLMissing
	}
	if c.Server.KeyRate <= 0 {
		return ErrKeyRateMissing
	}
	if c.Server.KeyBurst < 1 {
		return ErrKeyBurstMissing
	}
	return nil
}

// Engine returns the game tuning in the form the engine takes
func (c *Config) Engine() engine.Config {
	return engine.Config{
		EnemySpeed:    c.Game.EnemySpeed,
		PlayerSpeed:   c.Game.PlayerSpeed,
		MaxDistance:   c.Game.MaxDistance,
		SpawnInterval: c.Game.SpawnInterval,
		MaxHealth:     c.Game.MaxHealth,
		PlayWord:      c.Game.PlayWord,
		PauseKey:      c.Game.PauseKey,
	}
}
