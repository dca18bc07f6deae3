package engine

import (
	"log/slog"
	"math"
	"time"

	"go-typefight/pkg/events"
	"go-typefight/pkg/gameerrors"
	"go-typefight/pkg/geo"
	"go-typefight/pkg/glossary"
	"go-typefight/pkg/identity"
)

// Enemies spawns enemies and derives where each of them stands
type Enemies struct {
	config Config
	log    *events.Log
	game   *Game
	ids    identity.IDGenerator
	words  glossary.Source
	rng    geo.Random
	logger *slog.Logger
	memo   memo

	// spawn cadence, reset whenever a new session starts
	sessionID string
	nextSpawn time.Duration
}

// NewEnemies creates the enemy engine
func NewEnemies(config Config, log *events.Log, game *Game, ids identity.IDGenerator, words glossary.Source, rng geo.Random, logger *slog.Logger) *Enemies {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enemies{
		config: config,
		log:    log,
		game:   game,
		ids:    ids,
		words:  words,
		rng:    rng,
		logger: logger.With("component", "enemies"),
	}
}

// Spawn creates quantity enemies at random boundary positions, emitted as one batch.
// A quantity below 1 spawns nothing.
func (e *Enemies) Spawn(quantity int) ([]events.Emitted, error) {
	if quantity <= 0 {
		return nil, nil
	}
	batch := make([]events.Event, 0, quantity)
	for range quantity {
		enemy := &events.Enemy{
			Word:  e.words.NextWord(),
			Speed: e.config.EnemySpeed,
		}
		if err := identity.Assign(enemy, e.ids); err != nil {
			return nil, err
		}
		batch = append(batch, events.Spawn(*enemy, geo.RandomBoundaryPosition(e.rng)))
	}
	emitted := e.log.Emit(batch...)
	for _, event := range emitted {
		e.logger.Debug("Enemy spawned",
			"enemy", event.Spawn.Entity.ID,
			"word", event.Spawn.Entity.Word,
			"x", event.Spawn.Position.X,
			"y", event.Spawn.Position.Y,
		)
	}
	return emitted, nil
}

// index maps each enemy of the session to its SPAWN and its first HIT
type index struct {
	order  []events.Enemy
	spawns map[string]events.Emitted
	hits   map[string]events.Emitted
}

func (e *Enemies) index() index {
	return cached(&e.memo, e.game.frame(), "index", func() index {
		idx := index{
			spawns: make(map[string]events.Emitted),
			hits:   make(map[string]events.Emitted),
		}
		for _, event := range e.game.Session() {
			switch {
			case event.Type == events.TypeSpawn && event.Spawn != nil:
				id := event.Spawn.Entity.ID
				if _, seen := idx.spawns[id]; !seen {
					idx.spawns[id] = event
					idx.order = append(idx.order, event.Spawn.Entity)
				}
			case event.Type == events.TypeHit && event.Hit != nil && event.Hit.Enemy() != nil:
				id := event.Hit.Enemy().ID
				if _, seen := idx.hits[id]; !seen {
					idx.hits[id] = event
				}
			}
		}
		return idx
	})
}

// All returns the enemies spawned in the active session, in spawn order
func (e *Enemies) All() []events.Enemy {
	return e.index().order
}

// SpawnEvent returns the SPAWN of the enemy in the active session
func (e *Enemies) SpawnEvent(enemy events.Enemy) (events.Emitted, bool) {
	event, ok := e.index().spawns[enemy.ID]
	return event, ok
}

// Resolution returns the first HIT naming the enemy in the active session
func (e *Enemies) Resolution(enemy events.Enemy) (events.Emitted, bool) {
	event, ok := e.index().hits[enemy.ID]
	return event, ok
}

// Health is 1 while the enemy is alive and 0 once any hit resolved it
func (e *Enemies) Health(enemy events.Enemy) (int, error) {
	if _, ok := e.SpawnEvent(enemy); !ok {
		return 0, gameerrors.ErrEnemyNotInSession
	}
	if _, resolved := e.Resolution(enemy); resolved {
		return 0, nil
	}
	return 1, nil
}

// travel is the game time an enemy spent advancing, and the game time since the
// player killed it
type travel struct {
	spawn   events.Emitted
	advance time.Duration
	// set only for enemies the player killed
	killed    bool
	sinceKill time.Duration
}

func (e *Enemies) travel(enemy events.Enemy) (travel, error) {
	return cachedErr(&e.memo, e.game.frame(), "travel:"+enemy.ID, func() (travel, error) {
		spawn, ok := e.SpawnEvent(enemy)
		if !ok {
			return travel{}, gameerrors.ErrEnemyNotInSession
		}
		t := travel{spawn: spawn}

		// the enemy stops advancing at the earlier of its hit and the game over
		var limit *events.Emitted
		hit, resolved := e.Resolution(enemy)
		if resolved {
			limit = &hit
		}
		if death, over := e.game.DeathEvent(); over && (limit == nil || death.Timestamp.Before(limit.Timestamp)) {
			limit = &death
		}

		advance, err := e.game.ElapsedTimeSince(spawn, limit)
		if err != nil {
			return travel{}, err
		}
		// an enemy spawned after the game ended never moved
		t.advance = max(advance, 0)

		if resolved && hit.IsTargetHit() {
			sinceKill, err := e.game.ElapsedTimeSince(hit, nil)
			if err != nil {
				return travel{}, err
			}
			t.killed = true
			t.sinceKill = sinceKill
		}
		return t, nil
	})
}

func (e *Enemies) closingSpeed(enemy events.Enemy) float64 {
	return enemy.Speed - e.config.PlayerSpeed
}

// Distance returns how far the enemy is from the player. Zero or below means it
// reached the player.
func (e *Enemies) Distance(enemy events.Enemy) (float64, error) {
	t, err := e.travel(enemy)
	if err != nil {
		return 0, err
	}
	distance := e.config.MaxDistance - e.closingSpeed(enemy)*t.advance.Seconds()
	if t.killed {
		distance -= e.config.PlayerSpeed * t.sinceKill.Seconds()
	}
	return distance, nil
}

// Position returns where the enemy is drawn: on the line from its spawn point to
// the origin while it advances, then drifting back outward once killed.
func (e *Enemies) Position(enemy events.Enemy) (geo.Position, error) {
	t, err := e.travel(enemy)
	if err != nil {
		return geo.Position{}, err
	}
	fraction := 0.0
	if closing := e.closingSpeed(enemy); closing > 0 {
		duration := e.config.MaxDistance / closing * 1000
		fraction = math.Min(float64(t.advance.Milliseconds())/duration, 1)
	}
	position := t.spawn.Spawn.Position.TowardOrigin(fraction)
	if t.killed {
		position = position.Outward(e.config.PlayerSpeed * t.sinceKill.Seconds())
	}
	return position, nil
}

// watchDamage makes every live enemy that reached the player hit it, once
func (e *Enemies) watchDamage() error {
	if len(e.game.Session()) == 0 || e.game.Over() || e.game.Paused() {
		return nil
	}
	for _, enemy := range e.All() {
		health, err := e.Health(enemy)
		if err != nil {
			return err
		}
		if health == 0 {
			continue
		}
		distance, err := e.Distance(enemy)
		if err != nil {
			return err
		}
		if distance > 0 {
			continue
		}
		e.log.Emit(events.HitBySource(enemy))
		e.logger.Debug("Enemy reached the player", "enemy", enemy.ID, "word", enemy.Word)
		if e.game.Over() {
			e.logger.Info("Game over", "elapsed", e.game.ElapsedTime())
			return nil
		}
	}
	return nil
}

// watchSpawns spawns one enemy whenever the game time passes the next spawn mark.
// A tick that lands while paused waits for the resume.
func (e *Enemies) watchSpawns() error {
	session := e.game.Session()
	if len(session) == 0 {
		return nil
	}
	if session[0].ID != e.sessionID {
		e.sessionID = session[0].ID
		e.nextSpawn = 0
	}
	if e.game.Over() || e.game.Paused() || e.game.ElapsedTime() < e.nextSpawn {
		return nil
	}
	if _, err := e.Spawn(1); err != nil {
		return err
	}
	e.nextSpawn += e.config.SpawnInterval
	return nil
}
