package server

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go-typefight/pkg/constants"
	"go-typefight/pkg/engine"
	"go-typefight/pkg/events"
	"go-typefight/pkg/server/types"
	"go-typefight/pkg/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ConnectedPlayer represents a connected player in the game
type ConnectedPlayer struct {
	ID          string
	Name        string
	IsSpectator bool
}

// TickConfig holds configuration for room tick rate
type TickConfig struct {
	// TickInterval is the duration between game ticks. Default is 20ms.
	// Takes precedence over TickMultiplier if both are set.
	TickInterval time.Duration
	// TickMultiplier is a convenience multiplier for tick speed.
	// 1.0 = normal speed (20ms), 10.0 = 10x faster (2ms), 0.5 = half speed (40ms)
	TickMultiplier float64
}

var ErrUnknownCommand = errors.New("unknown command")

// GameRoom represents an instance of the game being played. Every access to
// the engine goes through LockObject.
type GameRoom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RoomCode string `json:"roomCode"`

	LockObject sync.Mutex
	Engine     *engine.Engine
	// Last update time
	LastUpdateTime time.Time
	// Map of player ID -> player
	Players map[string]*ConnectedPlayer

	// Tick configuration
	TickInterval   time.Duration
	TickMultiplier float64

	logger *slog.Logger

	// Tick goroutine management
	tickMutex    sync.Mutex
	tickStopChan chan struct{}
	tickWg       sync.WaitGroup
}

// NewGameRoom creates a new game room with default tick configuration
func NewGameRoom(id string, name string, roomCode string, opts engine.Options) (*GameRoom, error) {
	return NewGameRoomWithTickConfig(id, name, roomCode, opts, nil)
}

// NewGameRoomWithTickConfig creates a new game room with custom tick configuration
func NewGameRoomWithTickConfig(id string, name string, roomCode string, opts engine.Options, tickConfig *TickConfig) (*GameRoom, error) {
	// Calculate tick interval from config
	tickInterval, tickMultiplier, err := calculateTickInterval(tickConfig)
	if err != nil {
		return nil, errors.Wrap(err, "invalid tick configuration")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("room", id)
	opts.Logger = logger

	eng, err := engine.New(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create engine")
	}

	return &GameRoom{
		ID:             id,
		Name:           name,
		RoomCode:       roomCode,
		Engine:         eng,
		LastUpdateTime: time.Now(),
		Players:        make(map[string]*ConnectedPlayer),
		TickInterval:   tickInterval,
		TickMultiplier: tickMultiplier,
		logger:         logger.With("component", "room"),
	}, nil
}

// NewRoom creates a room with a fresh id and room code
func NewRoom(roomName string, opts engine.Options, tickConfig *TickConfig) (*GameRoom, error) {
	return NewGameRoomWithTickConfig(uuid.New().String(), roomName, util.GenerateRoomCode(), opts, tickConfig)
}

// AddPlayer adds a connected player to the game room
func (r *GameRoom) AddPlayer(player *ConnectedPlayer) bool {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()

	if _, exists := r.Players[player.ID]; exists {
		return false
	}
	r.Players[player.ID] = player

	if player.IsSpectator {
		r.logger.Info("Added spectator", "player", player.ID)
	} else {
		r.logger.Info("Added player", "player", player.ID)
	}
	return true
}

// AddPlayerToRoom creates a player with a fresh id and adds it to the room
func AddPlayerToRoom(room *GameRoom, playerName string, isSpectator bool) (*ConnectedPlayer, error) {
	player := &ConnectedPlayer{
		ID:          uuid.New().String(),
		Name:        playerName,
		IsSpectator: isSpectator,
	}
	if !room.AddPlayer(player) {
		return nil, errors.New("failed to add player to room")
	}
	return player, nil
}

func (r *GameRoom) GetPlayer(playerID string) (*ConnectedPlayer, bool) {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()
	player, exists := r.Players[playerID]
	return player, exists
}

// RemovePlayer removes a player from the game room
func (r *GameRoom) RemovePlayer(playerID string) {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()
	delete(r.Players, playerID)
}

func (r *GameRoom) GetNumberOfConnectedPlayers() int {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()
	return len(r.Players)
}

func (r *GameRoom) GetSpectators() []string {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()

	spectators := make([]string, 0)
	for _, player := range r.Players {
		if player.IsSpectator {
			spectators = append(spectators, player.Name)
		}
	}
	return spectators
}

// Type forwards a keystroke to the engine
func (r *GameRoom) Type(key string, repeat bool) bool {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()
	r.LastUpdateTime = time.Now()
	return r.Engine.Type(key, repeat)
}

// Command runs a lifecycle command: play, pause or resume
func (r *GameRoom) Command(name string) error {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()
	r.LastUpdateTime = time.Now()

	switch strings.ToLower(name) {
	case types.CommandPlay:
		r.Engine.Play()
		return nil
	case types.CommandPause:
		_, err := r.Engine.Pause()
		return err
	case types.CommandResume:
		_, err := r.Engine.Resume()
		return err
	}
	return errors.Wrapf(ErrUnknownCommand, "%q", name)
}

// Tick advances the engine to the current time
func (r *GameRoom) Tick() engine.DispatchResult {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()
	return r.Engine.Tick()
}

// Snapshot returns the current frame of the engine
func (r *GameRoom) Snapshot() engine.Snapshot {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()
	return r.Engine.Snapshot()
}

// Events returns the full event log of the room
func (r *GameRoom) Events() []events.Emitted {
	r.LockObject.Lock()
	defer r.LockObject.Unlock()
	return r.Engine.Log().Events()
}

// StartTickLoop starts the per-room tick goroutine. Starting a running loop is a no-op.
func (r *GameRoom) StartTickLoop(callback func(*GameRoom)) {
	r.tickMutex.Lock()
	defer r.tickMutex.Unlock()
	if r.tickStopChan != nil {
		return
	}

	stop := make(chan struct{})
	r.tickStopChan = stop
	r.tickWg.Add(1)
	go func() {
		defer r.tickWg.Done()
		ticker := time.NewTicker(r.TickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				callback(r)
			case <-stop:
				return
			}
		}
	}()
}

// StopTickLoop stops the per-room tick goroutine and waits for it to complete
func (r *GameRoom) StopTickLoop() {
	r.tickMutex.Lock()
	stop := r.tickStopChan
	r.tickStopChan = nil
	r.tickMutex.Unlock()

	if stop != nil {
		close(stop)
		r.tickWg.Wait()
	}
}

// calculateTickInterval computes the tick interval from TickConfig
func calculateTickInterval(config *TickConfig) (time.Duration, float64, error) {
	if config == nil {
		return constants.DefaultTickInterval, 1.0, nil
	}

	var interval time.Duration
	var multiplier float64

	// TickInterval takes precedence over TickMultiplier
	if config.TickInterval > 0 {
		interval = config.TickInterval
		multiplier = float64(constants.DefaultTickInterval) / float64(interval)
	} else if config.TickMultiplier > 0 {
		multiplier = config.TickMultiplier
		interval = time.Duration(float64(constants.DefaultTickInterval) / multiplier)
	} else {
		return constants.DefaultTickInterval, 1.0, nil
	}

	// Validate bounds
	if interval < constants.MinTickInterval {
		return 0, 0, fmt.Errorf("tick interval %v is below minimum %v", interval, constants.MinTickInterval)
	}
	if interval > constants.MaxTickInterval {
		return 0, 0, fmt.Errorf("tick interval %v exceeds maximum %v", interval, constants.MaxTickInterval)
	}

	return interval, multiplier, nil
}
