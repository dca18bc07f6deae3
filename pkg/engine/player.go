package engine

import (
	"log/slog"
	"time"
	"unicode/utf8"

	"go-typefight/pkg/events"
	"go-typefight/pkg/gameerrors"
	"go-typefight/pkg/keyboard"
)

// Player derives the player's health and which enemy the keystrokes are aimed at
type Player struct {
	config  Config
	log     *events.Log
	keys    *keyboard.Log
	game    *Game
	enemies *Enemies
	logger  *slog.Logger
	memo    memo
}

// NewPlayer creates the player engine
func NewPlayer(config Config, log *events.Log, keys *keyboard.Log, game *Game, enemies *Enemies, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Player{
		config:  config,
		log:     log,
		keys:    keys,
		game:    game,
		enemies: enemies,
		logger:  logger.With("component", "player"),
	}
}

// Health is zero without a session, otherwise the max health minus the word
// length of every enemy that reached the player, never below zero.
func (p *Player) Health() int {
	if len(p.game.Session()) == 0 {
		return 0
	}
	return max(p.config.MaxHealth-p.game.Damage(), 0)
}

// lastKill returns the most recent HIT dealt by the player this session
func (p *Player) lastKill() (events.Emitted, bool) {
	return cached(&p.memo, p.game.frame(), "lastKill", func() killLookup {
		session := p.game.Session()
		for i := len(session) - 1; i >= 0; i-- {
			if session[i].IsTargetHit() {
				return killLookup{event: session[i], found: true}
			}
		}
		return killLookup{}
	}).unpack()
}

type killLookup struct {
	event events.Emitted
	found bool
}

func (k killLookup) unpack() (events.Emitted, bool) {
	return k.event, k.found
}

// KeystrokesToHit returns the keystrokes currently progressing toward the
// enemy's word. Keystrokes from before the enemy spawned, typed while paused,
// after the game ended or already spent on the previous kill do not count.
func (p *Player) KeystrokesToHit(enemy events.Enemy) ([]keyboard.Keystroke, error) {
	return cachedErr(&p.memo, p.game.frame(), "keystrokes:"+enemy.ID, func() ([]keyboard.Keystroke, error) {
		spawn, ok := p.enemies.SpawnEvent(enemy)
		if !ok {
			return nil, gameerrors.ErrEnemyNotInSession
		}
		death, over := p.game.DeathEvent()
		kill, killed := p.lastKill()

		return p.keys.Matching(enemy.Word, func(k keyboard.Keystroke, _ int, _ []keyboard.Keystroke) bool {
			return !k.Timestamp.Before(spawn.Timestamp) &&
				!p.game.IsPausedAt(k.Timestamp) &&
				(!over || k.Timestamp.Before(death.Timestamp)) &&
				(!killed || k.Timestamp.After(kill.Timestamp))
		}), nil
	})
}

// Target returns the live enemy whose word the player started typing first.
// On exact ties the enemy spawned earlier wins.
func (p *Player) Target() (events.Enemy, bool) {
	return cached(&p.memo, p.game.frame(), "target", func() targetLookup {
		var best targetLookup
		for _, enemy := range p.enemies.All() {
			health, err := p.enemies.Health(enemy)
			if err != nil || health == 0 {
				continue
			}
			progress, err := p.KeystrokesToHit(enemy)
			if err != nil || len(progress) == 0 {
				continue
			}
			started := progress[0].Timestamp
			if !best.found || started.Before(best.started) {
				best = targetLookup{enemy: enemy, started: started, found: true}
			}
		}
		return best
	}).unpack()
}

type targetLookup struct {
	enemy   events.Enemy
	started time.Time
	found   bool
}

func (t targetLookup) unpack() (events.Enemy, bool) {
	return t.enemy, t.found
}

// KeystrokesToHitTarget returns the progress toward the current target
func (p *Player) KeystrokesToHitTarget() []keyboard.Keystroke {
	target, ok := p.Target()
	if !ok {
		return []keyboard.Keystroke{}
	}
	progress, err := p.KeystrokesToHit(target)
	if err != nil {
		return []keyboard.Keystroke{}
	}
	return progress
}

// watchProgress kills the target once its whole word has been typed
func (p *Player) watchProgress() error {
	target, ok := p.Target()
	if !ok {
		return nil
	}
	if len(p.KeystrokesToHitTarget()) != utf8.RuneCountInString(target.Word) {
		return nil
	}
	p.log.Emit(events.HitOnTarget(target))
	p.logger.Debug("Enemy killed", "enemy", target.ID, "word", target.Word)
	return nil
}
