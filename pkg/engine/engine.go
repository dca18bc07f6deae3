package engine

import (
	"log/slog"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"go-typefight/pkg/events"
	"go-typefight/pkg/geo"
	"go-typefight/pkg/glossary"
	"go-typefight/pkg/identity"
	"go-typefight/pkg/keyboard"
)

// Options configures an Engine. Zero values fall back to the production
// collaborators: the system clock, uuid ids and the English glossary.
type Options struct {
	Config    Config
	Clock     identity.Clock
	IDs       identity.IDGenerator
	Words     glossary.Source
	Random    geo.Random
	Logger    *slog.Logger
	MaxRounds int
}

// Engine wires the logs, the three engines and their watchers together. It is
// not safe for concurrent use; callers serialize access.
type Engine struct {
	config   Config
	clock    identity.Clock
	log      *events.Log
	keys     *keyboard.Log
	game     *Game
	enemies  *Enemies
	player   *Player
	watchers *WatcherManager
	logger   *slog.Logger
}

// New creates an Engine with no session
func New(opts Options) (*Engine, error) {
	if opts.Config == (Config{}) {
		opts.Config = DefaultConfig()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = identity.SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = identity.UUIDGenerator{}
	}
	if opts.Random == nil {
		opts.Random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Words == nil {
		opts.Words = glossary.NewEnglish(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	log := events.NewLog(opts.Clock, opts.IDs)
	keys := keyboard.NewLog(opts.Clock)
	game := NewGame(opts.Config, log, keys, opts.Clock, opts.Logger)
	enemies := NewEnemies(opts.Config, log, game, opts.IDs, opts.Words, opts.Random, opts.Logger)
	player := NewPlayer(opts.Config, log, keys, game, enemies, opts.Logger)

	e := &Engine{
		config:   opts.Config,
		clock:    opts.Clock,
		log:      log,
		keys:     keys,
		game:     game,
		enemies:  enemies,
		player:   player,
		watchers: NewWatcherManager(log, opts.Logger, opts.MaxRounds),
		logger:   opts.Logger.With("component", "engine"),
	}
	e.watchers.Subscribe(Watcher{Name: "lifecycle", Priority: 30, Run: game.watchKeystrokes}, TriggerKeystroke)
	e.watchers.Subscribe(Watcher{Name: "autoHit", Priority: 20, Run: player.watchProgress}, TriggerKeystroke, TriggerEmit)
	e.watchers.Subscribe(Watcher{Name: "damage", Priority: 20, Run: enemies.watchDamage}, TriggerTick)
	e.watchers.Subscribe(Watcher{Name: "spawn", Priority: 10, Run: enemies.watchSpawns}, TriggerTick)
	return e, nil
}

func (e *Engine) Config() Config { return e.config }
func (e *Engine) Log() *events.Log { return e.log }
func (e *Engine) Keyboard() *keyboard.Log { return e.keys }
func (e *Engine) Game() *Game { return e.game }
func (e *Engine) Enemies() *Enemies { return e.enemies }
func (e *Engine) Player() *Player { return e.player }
func (e *Engine) Watchers() *WatcherManager { return e.watchers }

// Type records a keystroke and lets the watchers react to it. It reports
// whether the keystroke was kept.
func (e *Engine) Type(key string, repeat bool) bool {
	if !e.keys.Stroke(key, repeat) {
		return false
	}
	e.watchers.Dispatch(TriggerKeystroke)
	return true
}

// Tick moves "now" to the clock and runs the game-time watchers
func (e *Engine) Tick() DispatchResult {
	e.game.SyncClock()
	return e.watchers.Dispatch(TriggerTick)
}

// Play starts a new session
func (e *Engine) Play() events.Emitted {
	event := e.game.Play()
	e.watchers.Dispatch(TriggerEmit)
	return event
}

// Pause pauses the session
func (e *Engine) Pause() (events.Emitted, error) {
	event, err := e.game.Pause()
	if err != nil {
		return events.Emitted{}, err
	}
	e.watchers.Dispatch(TriggerEmit)
	return event, nil
}

// Resume resumes the session
func (e *Engine) Resume() (events.Emitted, error) {
	event, err := e.game.Resume()
	if err != nil {
		return events.Emitted{}, err
	}
	e.watchers.Dispatch(TriggerEmit)
	return event, nil
}

// Spawn spawns quantity enemies outside the regular cadence
func (e *Engine) Spawn(quantity int) ([]events.Emitted, error) {
	emitted, err := e.enemies.Spawn(quantity)
	if err != nil {
		return nil, err
	}
	e.watchers.Dispatch(TriggerEmit)
	return emitted, nil
}

// EnemyView is the state of one enemy at a frame
type EnemyView struct {
	ID       string       `json:"id"`
	Word     string       `json:"word"`
	Typed    int          `json:"typed"`
	Distance float64      `json:"distance"`
	Position geo.Position `json:"position"`
	Alive    bool         `json:"alive"`
	Targeted bool         `json:"targeted"`
}

// Snapshot is a read-only view of a frame for presentation layers
type Snapshot struct {
	State        State         `json:"state"`
	Now          time.Time     `json:"now"`
	Elapsed      time.Duration `json:"elapsedNs"`
	Health       int           `json:"health"`
	MaxHealth    int           `json:"maxHealth"`
	Enemies      []EnemyView   `json:"enemies"`
	TargetID     string        `json:"targetId,omitempty"`
	PlayWord     string        `json:"playWord"`
	PlayProgress int           `json:"playProgress"`
	Kills        int           `json:"kills"`
	Events       int           `json:"events"`
}

// Snapshot captures the current frame
func (e *Engine) Snapshot() Snapshot {
	snapshot := Snapshot{
		State:        e.game.State(),
		Now:          e.game.Now(),
		Elapsed:      e.game.ElapsedTime(),
		Health:       e.player.Health(),
		MaxHealth:    e.config.MaxHealth,
		PlayWord:     e.config.PlayWord,
		PlayProgress: len(e.game.KeystrokesToPlay()),
		Events:       e.log.Len(),
		Enemies:      []EnemyView{},
	}

	target, targeted := e.player.Target()
	if targeted {
		snapshot.TargetID = target.ID
	}

	for _, enemy := range e.enemies.All() {
		view, err := e.enemyView(enemy)
		if err != nil {
			e.logger.Warn("Failed to read enemy", "enemy", enemy.ID, "error", err)
			continue
		}
		if hit, resolved := e.enemies.Resolution(enemy); resolved && hit.IsTargetHit() {
			snapshot.Kills++
		}
		view.Targeted = targeted && enemy.ID == target.ID
		snapshot.Enemies = append(snapshot.Enemies, view)
	}
	return snapshot
}

func (e *Engine) enemyView(enemy events.Enemy) (EnemyView, error) {
	health, err := e.enemies.Health(enemy)
	if err != nil {
		return EnemyView{}, err
	}
	distance, err := e.enemies.Distance(enemy)
	if err != nil {
		return EnemyView{}, err
	}
	position, err := e.enemies.Position(enemy)
	if err != nil {
		return EnemyView{}, err
	}
	view := EnemyView{
		ID:       enemy.ID,
		Word:     enemy.Word,
		Distance: distance,
		Position: position,
		Alive:    health > 0,
	}
	if view.Alive {
		progress, err := e.player.KeystrokesToHit(enemy)
		if err != nil {
			return EnemyView{}, err
		}
		view.Typed = min(len(progress), utf8.RuneCountInString(enemy.Word))
	}
	return view, nil
}
